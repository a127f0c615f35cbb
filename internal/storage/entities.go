package storage

import "time"

type Task struct {
	ID     string
	Title  string
	Status string
	// SortOrder is nil for rows that predate ordering.
	SortOrder *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskOrder is a single row of a batched reorder.
type TaskOrder struct {
	ID        string
	SortOrder int
	UpdatedAt time.Time
}

type Preferences struct {
	TodoSymbol           string
	TodoLabel            string
	WaitingSymbol        string
	WaitingLabel         string
	DoneSymbol           string
	DoneLabel            string
	UseSymbols           bool
	InactivePanelOpacity float64
	UpdatedAt            time.Time
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}

// Keys used in the app_state table.
const (
	StateHotkeyKeyCode   = "hotkey.key_code"
	StateHotkeyModifiers = "hotkey.modifiers"
	StatePanelFrame      = "panel.frame"
)
