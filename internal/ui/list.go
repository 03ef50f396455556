package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cargodesk/internal/api"
	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
	"cargodesk/internal/table"
	"cargodesk/internal/util"
)

const loadMargin = 3

// openFormMsg asks the root model to present a form.
type openFormMsg struct {
	form *FormModel
}

// listScreen is what the root model needs from an entity list regardless of
// its row type.
type listScreen interface {
	Title() string
	Route() string
	InitCmd() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	InputActive() bool
	StatusLine() string
	Close()
}

// ListSpec declares one entity screen.
type ListSpec[T any] struct {
	TableID           string
	Title             string
	Route             string
	Columns           []table.Column[T]
	DefaultOrder      []string
	DefaultVisibility map[string]bool
	// IDParam is the query parameter naming the record, paired with COMPID
	// on delete.
	IDParam string
	RowID   func(T) string
	// RowCompanyID extracts the record's company partition; deletes fall back
	// to the default partition only when it is empty.
	RowCompanyID func(T) string
	// FilterParams renames a column key to the query parameter the backend
	// filters on, for tables whose filter names differ from their columns.
	FilterParams map[string]string
	FormFields   []FormField
	// RowValues extracts the editable field values for the edit form.
	RowValues func(T) map[string]any
}

// ListModel is the screen around one entity table: it fetches pages through
// the proxy client, feeds them to the table engine, and renders the result.
type ListModel[T any] struct {
	spec   ListSpec[T]
	keys   KeyMap
	engine *table.Engine[T]
	client *api.Client[T]

	spinner     spinner.Model
	filterInput textinput.Model
	filtering   bool

	picker       bool
	pickerCursor int

	activeCol  int
	page       int
	totalPages int
	gState     GState
	wantMore   bool

	width  int
	height int
}

// NewListModel wires a list screen: a preference store for the table, the
// proxy client for its route, and the engine in between.
func NewListModel[T any](spec ListSpec[T], baseURL string, store *prefs.Store) *ListModel[T] {
	m := &ListModel[T]{
		spec:   spec,
		keys:   DefaultKeyMap(),
		client: api.NewClient[T](baseURL, spec.Route),
		page:   1,
	}

	m.engine = table.New(table.Config[T]{
		Columns:     spec.Columns,
		Prefs:       store,
		ShowActions: true,
		// Non-nil callbacks switch sorting and filtering to delegated mode;
		// the key handlers issue the actual refetch.
		OnSortChange:   func(string, table.SortDirection) {},
		OnFilterChange: func(string, string) {},
		OnLoadMore:     func() { m.wantMore = true },
		LoadMargin:     loadMargin,
	})

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	m.filterInput = textinput.New()
	m.filterInput.CharLimit = 60

	return m
}

func (m *ListModel[T]) Title() string { return m.spec.Title }
func (m *ListModel[T]) Route() string { return m.spec.Route }

// InputActive reports whether a text input owns the keyboard.
func (m *ListModel[T]) InputActive() bool { return m.filtering }

// Close releases the engine's load watch.
func (m *ListModel[T]) Close() { m.engine.Close() }

// InitCmd starts the first page load.
func (m *ListModel[T]) InitCmd() tea.Cmd {
	m.engine.SetLoading(true)
	return tea.Batch(m.spinner.Tick, m.loadCmd(1, false))
}

func (m *ListModel[T]) loadCmd(page int, appendRows bool) tea.Cmd {
	filters := m.engine.Filters()
	if len(m.spec.FilterParams) > 0 {
		mapped := make(map[string]string, len(filters))
		for key, value := range filters {
			if param, ok := m.spec.FilterParams[key]; ok {
				mapped[param] = value
			} else {
				mapped[key] = value
			}
		}
		filters = mapped
	}
	query := api.ListQuery{
		Page:    page,
		Filters: filters,
		Sort:    m.engine.Sort(),
	}
	client := m.client
	tableID := m.spec.TableID
	return func() tea.Msg {
		result, err := client.List(context.Background(), query)
		if errors.Is(err, api.ErrSuperseded) {
			return nil
		}
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.PageLoadedMsg{
			TableID:    tableID,
			Rows:       result.Data,
			Page:       page,
			TotalPages: result.TotalPages,
			Append:     appendRows,
		}
	}
}

// reload fetches page one with the current sort and filter state, superseding
// whatever is in flight.
func (m *ListModel[T]) reload() tea.Cmd {
	m.page = 1
	m.engine.SetLoading(true)
	return m.loadCmd(1, false)
}

// Update handles messages for this screen.
func (m *ListModel[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case model.PageLoadedMsg:
		if msg.TableID != m.spec.TableID {
			return nil
		}
		rows, _ := msg.Rows.([]T)
		hasMore := msg.Page < msg.TotalPages
		if msg.Append {
			m.engine.AppendRows(rows, hasMore)
		} else {
			m.engine.SetRows(rows, hasMore)
		}
		m.page = msg.Page
		m.totalPages = msg.TotalPages
		m.engine.SetLoading(false)
		return m.consumeLoadMore()

	case model.ErrorMsg:
		// A failed fetch must not leave the loading row up forever.
		m.engine.SetLoading(false)
		m.wantMore = false
		return nil

	case model.SavedMsg:
		if msg.TableID != m.spec.TableID {
			return nil
		}
		return m.reload()

	case model.DeletedMsg:
		if msg.TableID != m.spec.TableID {
			return nil
		}
		return m.reload()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.engine.Loading() {
			return cmd
		}
		return nil
	}
	return nil
}

// consumeLoadMore turns the engine's load-more signal into a page fetch.
func (m *ListModel[T]) consumeLoadMore() tea.Cmd {
	if !m.wantMore {
		return nil
	}
	m.wantMore = false
	m.engine.SetLoading(true)
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.page+1, true))
}

func (m *ListModel[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.picker {
		return m.handlePickerKey(msg)
	}

	// "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return nil
		}
		m.gState = GStateIdle
		m.engine.JumpToTop()
		return nil
	}
	m.gState = GStateIdle

	switch msg.String() {
	case "j", "down":
		m.engine.MoveDown()
		return m.consumeLoadMore()
	case "k", "up":
		m.engine.MoveUp()
		return nil
	case "G":
		m.engine.JumpToBottom()
		return m.consumeLoadMore()
	case "ctrl+d":
		for i := 0; i < m.viewportHeight()/2; i++ {
			m.engine.MoveDown()
		}
		return m.consumeLoadMore()
	case "ctrl+u":
		for i := 0; i < m.viewportHeight()/2; i++ {
			m.engine.MoveUp()
		}
		return nil
	case "tab":
		m.nextColumn(1)
		return nil
	case "shift+tab":
		m.nextColumn(-1)
		return nil
	case "s":
		if key := m.activeColumnKey(); key != "" && key != table.ActionsKey {
			m.engine.CycleSort(key)
			return m.reload()
		}
		return nil
	case "c":
		if key := m.activeColumnKey(); key != "" && len(m.engine.VisibleColumns()) > 1 {
			_ = m.engine.SetColumnVisibility(key, false)
			m.clampActiveColumn()
		}
		return nil
	case "C":
		m.picker = true
		m.pickerCursor = 0
		return nil
	case "[":
		if m.activeCol > 0 {
			_ = m.engine.MoveColumn(m.activeCol, m.activeCol-1)
			m.activeCol--
		}
		return nil
	case "]":
		if m.activeCol < len(m.engine.VisibleColumns())-1 {
			_ = m.engine.MoveColumn(m.activeCol, m.activeCol+1)
			m.activeCol++
		}
		return nil
	case "R":
		_ = m.engine.ResetPreferences()
		m.activeCol = 0
		return m.reload()
	case "/":
		key := m.activeColumnKey()
		if key == "" || key == table.ActionsKey {
			return nil
		}
		m.filtering = true
		m.filterInput.SetValue(m.engine.Filter(key))
		m.filterInput.Focus()
		return nil
	case "N":
		cleared := false
		for key := range m.engine.Filters() {
			m.engine.SetFilter(key, "")
			cleared = true
		}
		if cleared {
			return m.reload()
		}
		return nil
	case "r":
		return m.reload()
	case "a":
		form := NewFormModel(m.spec.TableID, strings.TrimSuffix(m.spec.Title, "s"), m.spec.FormFields, m.client.Create)
		return func() tea.Msg { return openFormMsg{form: form} }
	case "e", "enter", "l":
		row, ok := m.engine.CursorRow()
		if !ok {
			return nil
		}
		form := NewFormModel(m.spec.TableID, strings.TrimSuffix(m.spec.Title, "s"), m.spec.FormFields, m.client.Update)
		form.LoadValues(m.spec.RowValues(row))
		return func() tea.Msg { return openFormMsg{form: form} }
	case "d":
		row, ok := m.engine.CursorRow()
		if !ok {
			return nil
		}
		id := m.spec.RowID(row)
		compID := ""
		if m.spec.RowCompanyID != nil {
			compID = m.spec.RowCompanyID(row)
		}
		if compID == "" {
			compID = api.DefaultCompanyID
		}
		client := m.client
		idParam := m.spec.IDParam
		tableID := m.spec.TableID
		return func() tea.Msg {
			err := client.Delete(context.Background(), map[string]string{
				"COMPID": compID,
				idParam:  id,
			})
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.DeletedMsg{TableID: tableID, ID: id}
		}
	}
	return nil
}

func (m *ListModel[T]) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		key := m.activeColumnKey()
		if key == "" {
			return nil
		}
		m.engine.SetFilter(key, strings.TrimSpace(m.filterInput.Value()))
		return m.reload()
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}

func (m *ListModel[T]) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	cols := m.engine.Columns()
	switch msg.String() {
	case "esc", "C", "q":
		m.picker = false
		m.clampActiveColumn()
		return nil
	case "j", "down":
		if m.pickerCursor < len(cols)-1 {
			m.pickerCursor++
		}
		return nil
	case "k", "up":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return nil
	case " ", "enter":
		if m.pickerCursor < len(cols) {
			key := cols[m.pickerCursor].Key
			_ = m.engine.SetColumnVisibility(key, !m.engine.ColumnVisible(key))
		}
		return nil
	case "R":
		_ = m.engine.ResetPreferences()
		return m.reload()
	}
	return nil
}

func (m *ListModel[T]) activeColumnKey() string {
	visible := m.engine.VisibleColumns()
	if m.activeCol < 0 || m.activeCol >= len(visible) {
		return ""
	}
	return visible[m.activeCol].Key
}

func (m *ListModel[T]) nextColumn(step int) {
	visible := m.engine.VisibleColumns()
	if len(visible) == 0 {
		return
	}
	m.activeCol = (m.activeCol + step + len(visible)) % len(visible)
}

func (m *ListModel[T]) clampActiveColumn() {
	visible := len(m.engine.VisibleColumns())
	if visible == 0 {
		m.activeCol = 0
		return
	}
	if m.activeCol >= visible {
		m.activeCol = visible - 1
	}
}

func (m *ListModel[T]) viewportHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 10
	}
	return h
}

// StatusLine summarizes the table state for the footer.
func (m *ListModel[T]) StatusLine() string {
	parts := []string{fmt.Sprintf("%d rows", m.engine.Len())}
	if m.totalPages > 1 {
		parts = append(parts, fmt.Sprintf("page %d/%d", m.page, m.totalPages))
	}
	if key := m.activeColumnKey(); key != "" {
		parts = append(parts, "col "+key)
	}
	if s := m.engine.Sort(); s.Direction != table.SortNone {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.Column, s.Direction))
	}
	for key, value := range m.engine.Filters() {
		parts = append(parts, fmt.Sprintf("filter %s=%q", key, value))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the table.
func (m *ListModel[T]) View(width, height int) string {
	m.width = width
	m.height = height
	m.engine.SetViewportHeight(m.viewportHeight())

	if m.picker {
		return m.viewPicker(width, height)
	}

	visible := m.engine.VisibleColumns()
	if len(visible) == 0 {
		return EmptyStateStyle.Width(width).Height(height).
			Render("No visible columns. Press C to choose columns or R to reset.")
	}

	rows := m.engine.Rows()
	widths := m.columnWidths(visible, rows, width)

	headers := make([]string, 0, len(visible))
	for i, col := range visible {
		label := col.Title
		if i == m.activeCol {
			label = "[" + label + "]"
		}
		if s := m.engine.Sort(); s.Column == col.Key {
			switch s.Direction {
			case table.SortAsc:
				label += " ↑"
			case table.SortDesc:
				label += " ↓"
			}
		}
		headers = append(headers, label)
	}
	header := renderTableRow(headers, widths, TableHeaderStyle)

	bodyHeight := m.viewportHeight()
	var lines []string
	cursor := m.engine.Cursor()
	offset := m.engine.Offset()
	for i := offset; i < len(rows) && i < offset+bodyHeight; i++ {
		style := NormalRowStyle
		if i == cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, 0, len(visible))
		for _, col := range visible {
			if col.Key == table.ActionsKey {
				cells = append(cells, "⋯")
				continue
			}
			cells = append(cells, util.TruncateString(col.Value(rows[i]), maxCellWidth))
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}

	switch {
	case m.engine.Loading():
		lines = append(lines, StatusBarStyle.Render(m.spinner.View()+" Loading..."))
	case m.engine.Empty():
		lines = append(lines, EmptyStateStyle.Width(width).Render("No data available"))
	}

	var filterLine string
	if m.filtering {
		filterLine = StatusBarStyle.Render("filter "+m.activeColumnKey()+": ") + m.filterInput.View()
	}

	status := StatusBarStyle.Render(m.StatusLine())

	content := lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n"))
	blocks := []string{content}
	if filterLine != "" {
		blocks = append(blocks, filterLine)
	}
	spacer := height - lipgloss.Height(content) - lipgloss.Height(status)
	if filterLine != "" {
		spacer -= lipgloss.Height(filterLine)
	}
	if spacer > 0 {
		blocks = append(blocks, lipgloss.NewStyle().Height(spacer).Render(""))
	}
	blocks = append(blocks, status)
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *ListModel[T]) viewPicker(width, height int) string {
	cols := m.engine.Columns()
	lines := make([]string, 0, len(cols)+2)
	lines = append(lines, LabelStyle.Render("Columns")+BreadcrumbStyle.Render("  (space toggles, R resets, esc closes)"))
	for i, col := range cols {
		mark := "[ ]"
		if m.engine.ColumnVisible(col.Key) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, col.Title)
		if i == m.pickerCursor {
			line = SelectedRowStyle.Render(line)
		} else {
			line = NormalRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return PanelStyle.Width(width - 4).Height(height - 4).
		Render(strings.Join(lines, "\n"))
}

const maxCellWidth = 24

func (m *ListModel[T]) columnWidths(visible []table.Column[T], rows []T, total int) []int {
	widths := make([]int, len(visible))
	for i, col := range visible {
		w := lipgloss.Width(col.Title) + 2
		if i == m.activeCol {
			w += 2
		}
		for _, row := range rows {
			if col.Key == table.ActionsKey {
				continue
			}
			if cw := lipgloss.Width(col.Value(row)); cw > w {
				w = cw
			}
		}
		if w > maxCellWidth {
			w = maxCellWidth
		}
		widths[i] = w + 2
	}
	fixed := 0
	for _, w := range widths {
		fixed += w
	}
	if extra := total - fixed - 2; extra > 0 && len(widths) > 0 {
		widths[len(widths)-1] += extra
	}
	return widths
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
