package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SetupSettings records what the first-run wizard captured. The token is
// kept out of this file and stored separately with owner-only permissions.
type SetupSettings struct {
	Completed  bool   `json:"completed"`
	APIBaseURL string `json:"api_base_url"`
	Username   string `json:"username"`
}

func setupPath(configDir string) string {
	return filepath.Join(configDir, "setup.json")
}

func loadSetupSettings(configDir string) (SetupSettings, error) {
	path := setupPath(configDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SetupSettings{}, nil
		}
		return SetupSettings{}, err
	}

	var settings SetupSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return SetupSettings{}, err
	}
	return settings, nil
}

func saveSetupSettings(configDir string, settings SetupSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(setupPath(configDir), data, 0644)
}

func secureTokenPath(configDir string) string {
	return filepath.Join(configDir, "api_token")
}

func saveSecureToken(configDir, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	// Owner read/write only.
	return os.WriteFile(secureTokenPath(configDir), []byte(strings.TrimSpace(token)+"\n"), 0600)
}

func loadSecureToken(configDir string) (string, error) {
	data, err := os.ReadFile(secureTokenPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// shouldRunSetup decides whether to launch the interactive wizard. Serve
// mode never prompts, and neither does a non-interactive stdin.
func shouldRunSetup(settings SetupSettings, serve bool) bool {
	if settings.Completed || serve {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type setupStep int

const (
	stepBaseURL setupStep = iota
	stepUsername
	stepToken
	stepDone
)

type setupModel struct {
	step          setupStep
	baseURLInput  textinput.Model
	usernameInput textinput.Model
	tokenInput    textinput.Model
	settings      SetupSettings
	capturedToken string
	status        string
	errText       string
	width         int
	height        int
}

var (
	suColorSurface = lipgloss.Color("#1A1D23")
	suColorMuted   = lipgloss.Color("#6B7280")
	suColorText    = lipgloss.Color("#D5DBE5")
	suColorAccent  = lipgloss.Color("#82A0C2")
	suColorDanger  = lipgloss.Color("#E06C75")

	suTitleStyle = lipgloss.NewStyle().
			Foreground(suColorAccent).
			Bold(true)

	suHeaderStyle = lipgloss.NewStyle().
			Foreground(suColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(suColorMuted)

	suTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(suColorMuted)

	suTabInactive = lipgloss.NewStyle().
			Foreground(suColorMuted).
			Padding(0, 2)

	suTabActive = lipgloss.NewStyle().
			Foreground(suColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	suPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(suColorMuted).
			Padding(1, 2)

	suInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(suColorAccent).
			Padding(0, 1)

	suLabelStyle = lipgloss.NewStyle().
			Foreground(suColorAccent).
			Bold(true)

	suMutedStyle = lipgloss.NewStyle().
			Foreground(suColorMuted)

	suWarnStyle = lipgloss.NewStyle().
			Foreground(suColorDanger)

	suFooterStyle = lipgloss.NewStyle().
			Foreground(suColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(suColorMuted)
)

func newSetupInput(placeholder, prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 300
	in.Prompt = prompt
	in.TextStyle = lipgloss.NewStyle().Foreground(suColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(suColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(suColorSurface).Background(suColorAccent)
	return in
}

func newSetupModel() setupModel {
	baseURL := newSetupInput("https://api.example.com", "url> ")
	baseURL.Focus()

	username := newSetupInput("Your operator ID", "user> ")

	token := newSetupInput("Paste API token here", "token> ")
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'

	return setupModel{
		step:          stepBaseURL,
		baseURLInput:  baseURL,
		usernameInput: username,
		tokenInput:    token,
		settings:      SetupSettings{Completed: true},
	}
}

func (m setupModel) Init() tea.Cmd { return nil }

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.settings.Completed = false
			m.status = "Setup canceled."
			m.step = stepDone
			return m, tea.Quit
		case "enter":
			return m.commitStep()
		case "esc":
			return m.skipStep()
		}

		var cmd tea.Cmd
		switch m.step {
		case stepBaseURL:
			m.baseURLInput, cmd = m.baseURLInput.Update(msg)
		case stepUsername:
			m.usernameInput, cmd = m.usernameInput.Update(msg)
		case stepToken:
			m.tokenInput, cmd = m.tokenInput.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m setupModel) commitStep() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepBaseURL:
		url := strings.TrimSpace(m.baseURLInput.Value())
		if url == "" {
			m.errText = "A backend URL is required."
			return m, nil
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			m.errText = "The URL must start with http:// or https://."
			return m, nil
		}
		m.settings.APIBaseURL = strings.TrimRight(url, "/")
		m.errText = ""
		m.step = stepUsername
		m.usernameInput.Focus()
		return m, nil
	case stepUsername:
		m.settings.Username = strings.TrimSpace(m.usernameInput.Value())
		m.errText = ""
		m.step = stepToken
		m.tokenInput.Focus()
		return m, nil
	case stepToken:
		m.capturedToken = strings.TrimSpace(m.tokenInput.Value())
		if m.capturedToken == "" {
			m.status = "No token stored. Set API_TOKEN or pass --token at startup."
		} else {
			m.status = "Credentials saved."
		}
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m setupModel) skipStep() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepBaseURL:
		m.settings.Completed = false
		m.status = "Setup skipped. Set API_BASE_URL or pass --api-base at startup."
		m.step = stepDone
		return m, tea.Quit
	case stepUsername:
		m.errText = ""
		m.step = stepToken
		m.tokenInput.Focus()
		return m, nil
	case stepToken:
		m.status = "No token stored. Set API_TOKEN or pass --token at startup."
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m setupModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := height - 6
	if contentHeight < 8 {
		contentHeight = 8
	}
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(suColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m setupModel) renderHeader(width int) string {
	left := "  " + suTitleStyle.Render("cargodesk") + " " + suMutedStyle.Render("› Setup")
	right := suMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return suHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m setupModel) renderTabs(width int) string {
	labels := []string{"Backend URL", "Username", "API Token"}
	tabs := make([]string, len(labels))
	for i, label := range labels {
		if setupStep(i) == m.step {
			tabs[i] = suTabActive.Render(label)
		} else {
			tabs[i] = suTabInactive.Render(label)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Left, append([]string{"  "}, tabs...)...)
	return suTabsStyle.Width(width).Render(row)
}

func (m setupModel) renderFooter(width int) string {
	switch m.step {
	case stepBaseURL:
		return suFooterStyle.Width(width).Render("enter continue  esc skip setup  ctrl+c cancel")
	case stepUsername, stepToken:
		return suFooterStyle.Width(width).Render("enter continue  esc skip field  ctrl+c cancel")
	default:
		return suFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m setupModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}
	inputWidth := max(30, cardWidth-14)

	var body string
	switch m.step {
	case stepBaseURL:
		lines := []string{
			suLabelStyle.Render("Where does your business data API live?"),
			"",
			suMutedStyle.Render("Requests for agents, carriers, clients and countries are"),
			suMutedStyle.Render("proxied to this server with your stored token attached."),
			"",
			suLabelStyle.Render("Backend URL"),
			suInputStyle.Width(inputWidth).Render(m.baseURLInput.View()),
		}
		if m.errText != "" {
			lines = append(lines, "", suWarnStyle.Render(m.errText))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stepUsername:
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			suLabelStyle.Render("Who is making changes?"),
			"",
			suMutedStyle.Render("Records you create or edit are stamped with this name."),
			"",
			suLabelStyle.Render("Username"),
			suInputStyle.Width(inputWidth).Render(m.usernameInput.View()),
			"",
			suMutedStyle.Render("Press Enter to continue, Esc to leave blank."),
		)
	case stepToken:
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			suLabelStyle.Render("API Token"),
			"",
			suMutedStyle.Render("The token is stored in ~/.cargodesk/api_token with"),
			suMutedStyle.Render("owner-only permissions and sent on every backend request."),
			"",
			suInputStyle.Width(inputWidth).Render(m.tokenInput.View()),
			"",
			suMutedStyle.Render("Press Enter to save, Esc to skip."),
		)
	default:
		msg := suMutedStyle.Render(m.status)
		if strings.Contains(strings.ToLower(m.status), "canceled") ||
			strings.Contains(strings.ToLower(m.status), "skipped") {
			msg = suWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, suLabelStyle.Render("Setup Complete"), "", msg)
	}

	card := suPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runSetup(configDir string) (SetupSettings, error) {
	prog := tea.NewProgram(newSetupModel(), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return SetupSettings{}, fmt.Errorf("setup tui failed: %w", err)
	}
	m, ok := finalModel.(setupModel)
	if !ok {
		return SetupSettings{}, fmt.Errorf("unexpected setup model type")
	}
	if strings.TrimSpace(m.capturedToken) != "" {
		if err := saveSecureToken(configDir, m.capturedToken); err != nil {
			return SetupSettings{}, err
		}
	}
	if m.settings.Completed {
		if err := saveSetupSettings(configDir, m.settings); err != nil {
			return SetupSettings{}, err
		}
	}
	return m.settings, nil
}
