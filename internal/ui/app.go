package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
)

// Model is the root Bubble Tea model.
type Model struct {
	screen model.Screen
	mode   model.Mode

	width  int
	height int

	errText     string
	info        string
	showingHelp bool

	home    *HomeModel
	screens map[model.Screen]listScreen
	form    *FormModel

	keys     KeyMap
	formKeys FormKeyMap
	logger   *zap.Logger
}

// New creates the root model. kv backs both the per-table preferences and
// the recently-used list; baseURL is the local proxy surface.
func New(kv prefs.KV, baseURL string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		screen: model.ScreenHome,
		mode:   model.ModeNav,
		home:   NewHomeModel(prefs.NewRecentList(kv, logger)),
		screens: map[model.Screen]listScreen{
			model.ScreenAgents:    NewAgentsScreen(kv, baseURL, logger),
			model.ScreenCarriers:  NewCarriersScreen(kv, baseURL, logger),
			model.ScreenClients:   NewClientsScreen(kv, baseURL, logger),
			model.ScreenCountries: NewCountriesScreen(kv, baseURL, logger),
		},
		keys:     DefaultKeyMap(),
		formKeys: DefaultFormKeyMap(),
		logger:   logger,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			return m, nil
		}
		if m.mode == model.ModeInsert {
			return m, m.form.Update(msg)
		}
		if msg.String() == "?" && !m.inputActive() {
			m.showingHelp = true
			return m, nil
		}
		return m.handleNavKey(msg)

	case model.ErrorMsg:
		m.errText = msg.Err.Error()
		m.info = ""
		return m, m.broadcast(msg)

	case openFormMsg:
		m.form = msg.form
		m.mode = model.ModeInsert
		return m, nil

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		m.form = nil
		return m, nil

	case model.SavedMsg:
		m.mode = model.ModeNav
		m.form = nil
		m.errText = ""
		if msg.Operation == "update" {
			m.info = "Record updated"
		} else {
			m.info = "Record created"
		}
		return m, m.broadcast(msg)

	case model.DeletedMsg:
		m.errText = ""
		m.info = "Record deleted"
		return m, m.broadcast(msg)

	case model.PageLoadedMsg:
		m.errText = ""
		return m, m.broadcast(msg)
	}

	// Spinner ticks and other component messages go to the active screen.
	if s, ok := m.screens[m.screen]; ok {
		return m, s.Update(msg)
	}
	return m, nil
}

// broadcast hands a table-scoped message to every list screen; each screen
// ignores messages for other tables.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.screens))
	for _, s := range m.screens {
		if cmd := s.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) inputActive() bool {
	if s, ok := m.screens[m.screen]; ok {
		return s.InputActive()
	}
	return false
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.inputActive() {
		switch msg.String() {
		case "1":
			return m.openScreen(model.ScreenAgents)
		case "2":
			return m.openScreen(model.ScreenCarriers)
		case "3":
			return m.openScreen(model.ScreenClients)
		case "4":
			return m.openScreen(model.ScreenCountries)
		case "H":
			if m.screen != model.ScreenHome {
				m.screen = model.ScreenHome
				m.info = ""
				return m, nil
			}
		}
	}

	if m.screen == model.ScreenHome {
		return m.handleHomeKey(msg)
	}

	if !m.inputActive() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "b", "esc":
			m.screen = model.ScreenHome
			m.info = ""
			return m, nil
		}
	}

	if s, ok := m.screens[m.screen]; ok {
		m.info = ""
		return m, s.Update(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.home.MoveDown()
		return m, nil
	case "k", "up":
		m.home.MoveUp()
		return m, nil
	case "x":
		if err := m.home.recent.Clear(); err != nil {
			m.errText = err.Error()
		} else {
			m.info = "Recent list cleared"
			m.home.cursor = 0
		}
		return m, nil
	case "enter", "l":
		if screen, ok := m.home.Select(); ok {
			m.screen = screen
			m.info = ""
			if s, found := m.screens[screen]; found {
				return m, s.InitCmd()
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) openScreen(screen model.Screen) (tea.Model, tea.Cmd) {
	if m.screen == screen {
		return m, nil
	}
	m.screen = screen
	m.info = ""
	m.home.Record(screen)
	if s, ok := m.screens[screen]; ok {
		return m, s.InitCmd()
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	breadcrumbParts := []string{"Home"}
	contentHeight := m.height - 4

	var content string
	switch {
	case m.mode == model.ModeInsert && m.form != nil:
		if s, ok := m.screens[m.screen]; ok {
			breadcrumbParts = []string{s.Title(), m.form.Title()}
		} else {
			breadcrumbParts = []string{m.form.Title()}
		}
		content = m.form.View(m.width, contentHeight)
	case m.screen == model.ScreenHome:
		content = m.home.View(m.width, contentHeight)
	default:
		if s, ok := m.screens[m.screen]; ok {
			breadcrumbParts = []string{"General Settings", s.Title()}
			content = s.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumbParts, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	rows := []string{header}
	if m.errText != "" {
		rows = append(rows, ErrorStyle.Width(m.width).Render("Error: "+m.errText))
	}
	if m.info != "" {
		rows = append(rows, SuccessStyle.Width(m.width).Render(m.info))
	}
	rows = append(rows, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderHeader(breadcrumbParts []string, width int) string {
	title := HeaderStyle.Render("cargodesk")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	dateStr := time.Now().Format("Mon 02 Jan")
	right := BreadcrumbStyle.Render(dateStr) + "  "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

// Close releases every screen's resources.
func (m Model) Close() {
	for _, s := range m.screens {
		s.Close()
	}
}
