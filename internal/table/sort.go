package table

import (
	"sort"
	"strings"
)

// SortDirection is the tri-state direction of a column sort.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// String returns the wire form used by server-delegated sorting.
func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// SortState is the single active column sort of a table instance. It is not
// persisted.
type SortState struct {
	Column    string
	Direction SortDirection
}

// Cycle advances the sort state for an activation of columnKey: repeated
// activations of the same column run none -> asc -> desc -> none, while
// activating a different column starts it at ascending and drops the old one.
func Cycle(cur SortState, columnKey string) SortState {
	if cur.Column != columnKey {
		return SortState{Column: columnKey, Direction: SortAsc}
	}
	switch cur.Direction {
	case SortAsc:
		return SortState{Column: columnKey, Direction: SortDesc}
	case SortDesc:
		return SortState{}
	default:
		return SortState{Column: columnKey, Direction: SortAsc}
	}
}

// ApplyLocal returns a stably sorted copy of rows by the state's column.
// Missing or empty cell values are ordering-equal to each other and sort
// lowest ascending. Descending flips the comparator's sign rather than
// reversing an ascending sort, so equal values keep their relative order in
// both directions. With no active sort, or an unknown column, rows are
// returned unchanged in their original order.
func ApplyLocal[T any](rows []T, cols []Column[T], state SortState) []T {
	if state.Direction == SortNone || state.Column == "" {
		return rows
	}

	var value func(T) string
	for _, c := range cols {
		if c.Key == state.Column {
			value = c.Value
			break
		}
	}
	if value == nil {
		return rows
	}

	sorted := append([]T(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := strings.Compare(value(sorted[i]), value(sorted[j]))
		if state.Direction == SortDesc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return sorted
}
