package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cargodesk/internal/model"
)

// FormField describes one input of an entity form.
type FormField struct {
	Key      string
	Label    string
	Required bool
	// MaxLen bounds the input; zero means the default of 100.
	MaxLen int
}

// FormModel is the create/edit form shared by every entity screen. Submit
// receives the field values keyed by backend field name.
type FormModel struct {
	tableID string
	title   string
	fields  []FormField
	inputs  []textinput.Model
	focused int
	editing bool
	errText string

	submit func(ctx context.Context, body map[string]any) error
}

// NewFormModel builds a blank create form.
func NewFormModel(tableID, title string, fields []FormField, submit func(context.Context, map[string]any) error) *FormModel {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.Label
		in.CharLimit = f.MaxLen
		if in.CharLimit == 0 {
			in.CharLimit = 100
		}
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	return &FormModel{
		tableID: tableID,
		title:   title,
		fields:  fields,
		inputs:  inputs,
		submit:  submit,
	}
}

// LoadValues prefills the form from an existing record and switches it to
// edit mode. The identifier field becomes read-only by convention: edits key
// on it, so the first field stays untouched.
func (m *FormModel) LoadValues(values map[string]any) {
	m.editing = true
	for i, f := range m.fields {
		if v, ok := values[f.Key]; ok {
			m.inputs[i].SetValue(fmt.Sprintf("%v", v))
		}
	}
}

// Title returns the form heading.
func (m *FormModel) Title() string {
	if m.editing {
		return "Edit " + m.title
	}
	return "New " + m.title
}

// Update handles input.
func (m *FormModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "esc":
		return func() tea.Msg { return model.FormCancelledMsg{} }
	case "ctrl+s", "enter":
		return m.save()
	case "tab", "down":
		m.nextField()
		return nil
	case "shift+tab", "up":
		m.prevField()
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return cmd
}

func (m *FormModel) nextField() {
	m.inputs[m.focused].Blur()
	m.focused = (m.focused + 1) % len(m.inputs)
	m.inputs[m.focused].Focus()
}

func (m *FormModel) prevField() {
	m.inputs[m.focused].Blur()
	m.focused--
	if m.focused < 0 {
		m.focused = len(m.inputs) - 1
	}
	m.inputs[m.focused].Focus()
}

func (m *FormModel) save() tea.Cmd {
	body := make(map[string]any, len(m.fields))
	for i, f := range m.fields {
		value := strings.TrimSpace(m.inputs[i].Value())
		if value == "" && f.Required {
			m.errText = f.Label + " is required"
			return nil
		}
		body[f.Key] = value
	}
	m.errText = ""

	operation := "create"
	if m.editing {
		operation = "update"
	}
	tableID := m.tableID
	submit := m.submit
	return func() tea.Msg {
		if err := submit(context.Background(), body); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.SavedMsg{TableID: tableID, Operation: operation}
	}
}

// View renders the form. Long forms window around the focused field so the
// wide entities still fit a small terminal.
func (m *FormModel) View(width, height int) string {
	fit := (height - 8) / 2
	if fit < 3 {
		fit = 3
	}
	start := 0
	if len(m.fields) > fit {
		start = m.focused - fit/2
		if start < 0 {
			start = 0
		}
		if start+fit > len(m.fields) {
			start = len(m.fields) - fit
		}
	}
	end := start + fit
	if end > len(m.fields) {
		end = len(m.fields)
	}

	rows := make([]string, 0, fit+3)
	heading := LabelStyle.Render(m.Title())
	if len(m.fields) > fit {
		heading += BreadcrumbStyle.Render(fmt.Sprintf("  (field %d of %d)", m.focused+1, len(m.fields)))
	}
	rows = append(rows, heading)
	for i := start; i < end; i++ {
		f := m.fields[i]
		label := f.Label
		if f.Required {
			label += " *"
		}
		rows = append(rows, renderFormField(label, m.inputs[i], i == m.focused))
	}
	if m.errText != "" {
		rows = append(rows, "", ErrorStyle.Render(m.errText))
	}

	return PanelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(strings.Join(rows, "\n"))
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BreadcrumbStyle
	if focused {
		style = LabelStyle
	}
	return style.Render(label) + "\n" + input.View()
}
