// Package table implements the generic data-table engine behind every list
// screen: column ordering and visibility, tri-state sorting, delegated
// filtering, and incremental page loading.
package table

// ActionsKey is the key of the pseudo-column carrying the row actions menu.
// It participates in ordering and visibility like any data column.
const ActionsKey = "actions"

// Column describes one field of the row type T: the stable key used for
// preferences and server-delegated sorting and filtering, the header label,
// and how to read the cell value out of a row.
type Column[T any] struct {
	Key   string
	Title string
	Value func(T) string
}

func actionsColumn[T any]() Column[T] {
	return Column[T]{Key: ActionsKey, Title: "Actions", Value: func(T) string { return "" }}
}
