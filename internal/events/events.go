// Package events is an in-process, synchronous event dispatcher used for
// cross-component notifications (panel focus, hotkey changes, task activity).
package events

import "github.com/sandeepkv93/radar/internal/model"

type Event interface {
	Name() string
}

// TaskAdded is published after a task is created. The panel uses it to run
// the radar sweep animation.
type TaskAdded struct {
	Task model.Task
}

type TasksCleared struct {
	DoneOnly bool
	Count    int
}

// TasksReloaded is published after the task list was re-read from the store.
type TasksReloaded struct {
	Count int
}

type PanelActivated struct{}

type PanelDeactivated struct{}

type TogglePanel struct{}

type ShowSettings struct{}

type ClearAllRequested struct{}

type ResetPanelPosition struct{}

type OpacityChanged struct {
	Opacity float64
}

type HotkeyUpdated struct {
	Hotkey model.Hotkey
}

func (TaskAdded) Name() string          { return "task_added" }
func (TasksCleared) Name() string       { return "tasks_cleared" }
func (TasksReloaded) Name() string      { return "tasks_reloaded" }
func (PanelActivated) Name() string     { return "panel_activated" }
func (PanelDeactivated) Name() string   { return "panel_deactivated" }
func (TogglePanel) Name() string        { return "toggle_panel" }
func (ShowSettings) Name() string       { return "show_settings" }
func (ClearAllRequested) Name() string  { return "clear_all_requested" }
func (ResetPanelPosition) Name() string { return "reset_panel_position" }
func (OpacityChanged) Name() string     { return "opacity_changed" }
func (HotkeyUpdated) Name() string      { return "hotkey_updated" }
