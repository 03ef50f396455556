package table

import (
	"cargodesk/internal/prefs"
)

// Config wires an Engine to its callbacks. Sorting and filtering are
// delegated outward when their callbacks are set; sorting falls back to the
// local comparator when OnSortChange is nil, filtering never runs locally.
type Config[T any] struct {
	Columns     []Column[T]
	Prefs       *prefs.Store
	ShowActions bool

	OnSortChange   func(column string, direction SortDirection)
	OnFilterChange func(column, value string)
	OnEdit         func(row T)
	OnDelete       func(row T)
	OnRowClick     func(row T)
	OnLoadMore     func()

	// LoadMargin is how many rows before the sentinel reaches the viewport
	// bottom the next page load starts.
	LoadMargin int
}

// Engine owns the presentation state of one data table: rows, column order
// and visibility (through the preference store), the active sort and filter
// state, the cursor, and the infinite-load watch on the last row.
type Engine[T any] struct {
	columns []Column[T]
	byKey   map[string]Column[T]
	store   *prefs.Store

	rows    []T
	sort    SortState
	filters map[string]string

	loading bool
	hasMore bool

	cursor         int
	offset         int
	viewportHeight int

	loader *LoadController

	onSortChange   func(string, SortDirection)
	onFilterChange func(string, string)
	onEdit         func(T)
	onDelete       func(T)
	onRowClick     func(T)
}

// New creates an engine. With ShowActions the actions pseudo-column is
// injected as the first descriptor and participates in ordering and
// visibility like any other column.
func New[T any](cfg Config[T]) *Engine[T] {
	cols := cfg.Columns
	if cfg.ShowActions {
		cols = append([]Column[T]{actionsColumn[T]()}, cols...)
	}

	e := &Engine[T]{
		columns:        cols,
		byKey:          make(map[string]Column[T], len(cols)),
		store:          cfg.Prefs,
		filters:        make(map[string]string),
		hasMore:        true,
		viewportHeight: 10,
		onSortChange:   cfg.OnSortChange,
		onFilterChange: cfg.OnFilterChange,
		onEdit:         cfg.OnEdit,
		onDelete:       cfg.OnDelete,
		onRowClick:     cfg.OnRowClick,
	}
	for _, c := range cols {
		e.byKey[c.Key] = c
	}

	onLoadMore := cfg.OnLoadMore
	if onLoadMore == nil {
		onLoadMore = func() {}
	}
	e.loader = NewLoadController(cfg.LoadMargin,
		func() bool { return e.loading },
		func() bool { return e.hasMore },
		onLoadMore)
	return e
}

// SetRows replaces the row set (a fresh first page) and re-arms the
// infinite-load watch on the new last row.
func (e *Engine[T]) SetRows(rows []T, hasMore bool) {
	e.rows = append([]T(nil), rows...)
	e.hasMore = hasMore
	e.clampCursor()
	e.rearm()
}

// AppendRows extends the row set with the next page.
func (e *Engine[T]) AppendRows(rows []T, hasMore bool) {
	e.rows = append(e.rows, rows...)
	e.hasMore = hasMore
	e.rearm()
}

func (e *Engine[T]) rearm() {
	if len(e.rows) == 0 {
		e.loader.Arm(-1)
		return
	}
	e.loader.Arm(len(e.rows) - 1)
	e.observe()
}

// SetLoading flags a page load in flight.
func (e *Engine[T]) SetLoading(loading bool) {
	e.loading = loading
	if !loading {
		// A short page may leave the sentinel already inside the viewport.
		e.observe()
	}
}

// Loading reports whether a page load is in flight.
func (e *Engine[T]) Loading() bool { return e.loading }

// Empty reports whether the "no data" row should render. Loading and empty
// are mutually exclusive; while a load is in flight only the loading row
// shows.
func (e *Engine[T]) Empty() bool { return !e.loading && len(e.rows) == 0 }

// Rows returns the rows in display order: the local stable sort applies only
// when sorting has not been delegated to a sort-change callback.
func (e *Engine[T]) Rows() []T {
	if e.onSortChange != nil {
		return e.rows
	}
	return ApplyLocal(e.rows, e.columns, e.sort)
}

// Len returns the raw row count.
func (e *Engine[T]) Len() int { return len(e.rows) }

// VisibleColumns returns the columns to render: the preferred order filtered
// to keys this table actually has, with visibility true. Stale keys from
// removed columns drop out here without disturbing anything.
func (e *Engine[T]) VisibleColumns() []Column[T] {
	p := e.store.Preferences()
	out := make([]Column[T], 0, len(e.columns))
	for _, key := range p.ColumnOrder {
		col, known := e.byKey[key]
		if known && p.ColumnVisibility[key] {
			out = append(out, col)
		}
	}
	return out
}

// Columns returns every descriptor, in preferred order, with its current
// visibility. Used by the column picker.
func (e *Engine[T]) Columns() []Column[T] {
	p := e.store.Preferences()
	out := make([]Column[T], 0, len(e.columns))
	for _, key := range p.ColumnOrder {
		if col, known := e.byKey[key]; known {
			out = append(out, col)
		}
	}
	return out
}

// ColumnVisible reports the effective visibility of key; keys absent from
// the preference map count as hidden.
func (e *Engine[T]) ColumnVisible(key string) bool {
	return e.store.Preferences().ColumnVisibility[key]
}

// SetColumnVisibility toggles one column and persists immediately.
func (e *Engine[T]) SetColumnVisibility(key string, visible bool) error {
	err := e.store.SetColumnVisibility(key, visible)
	e.clampCursor()
	return err
}

// MoveColumn drags the column at visible position sourceIndex to visible
// position destIndex and persists the resulting full order.
func (e *Engine[T]) MoveColumn(sourceIndex, destIndex int) error {
	visible := e.VisibleColumns()
	visibleKeys := make([]string, len(visible))
	for i, c := range visible {
		visibleKeys[i] = c.Key
	}
	full := e.store.Preferences().ColumnOrder
	return e.store.SetColumnOrder(Reorder(full, visibleKeys, sourceIndex, destIndex))
}

// ResetPreferences reverts column order and visibility to the coded defaults.
func (e *Engine[T]) ResetPreferences() error {
	return e.store.Reset()
}

// CycleSort activates columnKey's header: none -> asc -> desc -> none. The
// actions pseudo-column is not sortable. With a sort callback set the new
// state is delegated outward; otherwise the local comparator picks it up on
// the next Rows call.
func (e *Engine[T]) CycleSort(columnKey string) {
	if columnKey == ActionsKey {
		return
	}
	e.sort = Cycle(e.sort, columnKey)
	if e.onSortChange != nil {
		e.onSortChange(columnKey, e.sort.Direction)
	}
}

// Sort returns the current sort state.
func (e *Engine[T]) Sort() SortState { return e.sort }

// SetFilter records filter text for a column and delegates it outward.
// Empty values remove the entry. The engine never filters rows itself.
func (e *Engine[T]) SetFilter(columnKey, value string) {
	if value == "" {
		delete(e.filters, columnKey)
	} else {
		e.filters[columnKey] = value
	}
	if e.onFilterChange != nil {
		e.onFilterChange(columnKey, value)
	}
}

// Filter returns the current filter text for a column.
func (e *Engine[T]) Filter(columnKey string) string { return e.filters[columnKey] }

// Filters returns a copy of the filter state.
func (e *Engine[T]) Filters() map[string]string {
	out := make(map[string]string, len(e.filters))
	for k, v := range e.filters {
		out[k] = v
	}
	return out
}

// Cursor returns the current cursor index into Rows.
func (e *Engine[T]) Cursor() int { return e.cursor }

// Offset returns the first visible row index.
func (e *Engine[T]) Offset() int { return e.offset }

// SetViewportHeight sets how many rows fit on screen.
func (e *Engine[T]) SetViewportHeight(h int) {
	if h > 0 {
		e.viewportHeight = h
	}
	e.observe()
}

// MoveDown moves the cursor down one row, scrolling as needed.
func (e *Engine[T]) MoveDown() {
	if e.cursor < len(e.rows)-1 {
		e.cursor++
		if e.cursor >= e.offset+e.viewportHeight {
			e.offset++
		}
	}
	e.observe()
}

// MoveUp moves the cursor up one row.
func (e *Engine[T]) MoveUp() {
	if e.cursor > 0 {
		e.cursor--
		if e.cursor < e.offset {
			e.offset--
		}
	}
}

// JumpToTop moves to the first row.
func (e *Engine[T]) JumpToTop() {
	e.cursor = 0
	e.offset = 0
}

// JumpToBottom moves to the last row.
func (e *Engine[T]) JumpToBottom() {
	if len(e.rows) == 0 {
		return
	}
	e.cursor = len(e.rows) - 1
	if e.cursor >= e.viewportHeight {
		e.offset = e.cursor - e.viewportHeight + 1
	}
	e.observe()
}

// CursorRow returns the row under the cursor, in display order.
func (e *Engine[T]) CursorRow() (T, bool) {
	rows := e.Rows()
	if e.cursor < 0 || e.cursor >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[e.cursor], true
}

// EditCurrent invokes the edit action for the row under the cursor. Action
// menu interactions never fall through to the row click handler.
func (e *Engine[T]) EditCurrent() {
	if row, ok := e.CursorRow(); ok && e.onEdit != nil {
		e.onEdit(row)
	}
}

// DeleteCurrent invokes the delete action for the row under the cursor.
func (e *Engine[T]) DeleteCurrent() {
	if row, ok := e.CursorRow(); ok && e.onDelete != nil {
		e.onDelete(row)
	}
}

// ClickCurrent invokes the row click handler for the row under the cursor.
func (e *Engine[T]) ClickCurrent() {
	if row, ok := e.CursorRow(); ok && e.onRowClick != nil {
		e.onRowClick(row)
	}
}

// Close releases the infinite-load watch. Call when the screen unmounts.
func (e *Engine[T]) Close() {
	e.loader.Close()
}

func (e *Engine[T]) observe() {
	e.loader.Observe(e.offset, e.offset+e.viewportHeight-1)
}

func (e *Engine[T]) clampCursor() {
	if len(e.rows) == 0 {
		e.cursor = 0
		e.offset = 0
		return
	}
	if e.cursor >= len(e.rows) {
		e.cursor = len(e.rows) - 1
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.offset > e.cursor {
		e.offset = e.cursor
	}
}
