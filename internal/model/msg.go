package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// PageLoadedMsg is sent when a list page arrives for a table. Rows carries
// the typed slice for the table identified by TableID; Append distinguishes
// a scroll-triggered page from a fresh load.
type PageLoadedMsg struct {
	TableID    string
	Rows       any
	Page       int
	TotalPages int
	Append     bool
}

// SavedMsg is sent when a create or update round-trips successfully.
type SavedMsg struct {
	TableID   string
	Operation string // create, update
}

// DeletedMsg is sent when a record is deleted.
type DeletedMsg struct {
	TableID string
	ID      string
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// StatusMsg carries a transient status line for the footer.
type StatusMsg struct {
	Text string
}

// Screen represents different app screens.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenAgents
	ScreenCarriers
	ScreenClients
	ScreenCountries
	ScreenForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
