package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
	"cargodesk/internal/util"
)

// homeEntry is one navigable destination on the home screen.
type homeEntry struct {
	title  string
	href   string
	icon   string
	screen model.Screen
}

var homeEntries = []homeEntry{
	{title: "Agents", href: "/general-settings/agents", icon: "👤", screen: model.ScreenAgents},
	{title: "Carriers", href: "/general-settings/carriers", icon: "🚚", screen: model.ScreenCarriers},
	{title: "Clients", href: "/general-settings/clients", icon: "🏢", screen: model.ScreenClients},
	{title: "Countries", href: "/general-settings/countries", icon: "🌍", screen: model.ScreenCountries},
}

// HomeModel is the landing screen: the section menu plus the recently-used
// shortcuts.
type HomeModel struct {
	recent *prefs.RecentList
	cursor int
}

// NewHomeModel creates the home screen.
func NewHomeModel(recent *prefs.RecentList) *HomeModel {
	return &HomeModel{recent: recent}
}

// entries returns the selectable rows: recently-used shortcuts first, then
// the full menu.
func (m *HomeModel) entries() []homeEntry {
	out := make([]homeEntry, 0, len(homeEntries)+maxRecent())
	for _, item := range m.recent.Items() {
		if e, ok := entryByHref(item.Href); ok {
			e.title = item.Title
			out = append(out, e)
		}
	}
	return append(out, homeEntries...)
}

func maxRecent() int { return 5 }

func entryByHref(href string) (homeEntry, bool) {
	for _, e := range homeEntries {
		if e.href == href {
			return e, true
		}
	}
	return homeEntry{}, false
}

// MoveDown moves the cursor down.
func (m *HomeModel) MoveDown() {
	if m.cursor < len(m.entries())-1 {
		m.cursor++
	}
}

// MoveUp moves the cursor up.
func (m *HomeModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// Select returns the destination under the cursor and records the visit.
func (m *HomeModel) Select() (model.Screen, bool) {
	entries := m.entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return 0, false
	}
	e := entries[m.cursor]
	_ = m.recent.Add(e.title, e.href, e.icon)
	return e.screen, true
}

// Record notes a visit to screen without going through the cursor, keeping
// the shortcuts fresh when screens are reached by hotkey.
func (m *HomeModel) Record(screen model.Screen) {
	for _, e := range homeEntries {
		if e.screen == screen {
			_ = m.recent.Add(e.title, e.href, e.icon)
			return
		}
	}
}

// View renders the home screen.
func (m *HomeModel) View(width, height int) string {
	var sections []string

	recent := m.recent.Items()
	row := 0
	if len(recent) > 0 {
		sections = append(sections, LabelStyle.Render("Recently Used"))
		for _, item := range recent {
			if _, ok := entryByHref(item.Href); !ok {
				continue
			}
			stamp := util.FormatRelativeMillis(item.Timestamp)
			line := fmt.Sprintf("%s %s  %s", item.Icon, item.Title,
				BreadcrumbStyle.Render(stamp))
			if row == m.cursor {
				line = SelectedRowStyle.Render(fmt.Sprintf("%s %s  %s", item.Icon, item.Title, stamp))
			}
			sections = append(sections, "  "+line)
			row++
		}
		sections = append(sections, "")
	}

	sections = append(sections, LabelStyle.Render("General Settings"))
	for _, e := range homeEntries {
		line := fmt.Sprintf("%s %s", e.icon, e.title)
		if row == m.cursor {
			line = SelectedRowStyle.Render(line)
		} else {
			line = NormalRowStyle.Render(line)
		}
		sections = append(sections, "  "+line)
		row++
	}

	content := PanelStyle.Width(width - 4).Render(strings.Join(sections, "\n"))
	return lipgloss.NewStyle().Width(width).Height(height).Render(content)
}
