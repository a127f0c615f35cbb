package update

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/views"
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	switch keyStr {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case ToggleKey:
		return m.toggleVisible()
	}
	if m.handleHotkey(msg) {
		return m, nil
	}

	if !m.Visible {
		switch keyStr {
		case "enter", " ":
			return m.toggleVisible()
		case "q":
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.Screen == ScreenSettings {
		return m.handleSettingsKey(msg)
	}
	return m.handleListKey(msg)
}

// handleHotkey lets the hotkey manager see the key. While text is being
// typed only ctrl/alt chords count.
func (m Model) handleHotkey(msg tea.KeyMsg) bool {
	h, ok := keyToHotkey(msg)
	if !ok {
		return false
	}
	if m.textEntryActive() && h.Modifiers&(model.ModCtrl|model.ModAlt) == 0 {
		return false
	}
	return m.app.Hotkeys.Handle(h)
}

func (m Model) textEntryActive() bool {
	return m.InputFocused || m.session.Editing() != "" || m.Palette.Active || m.Settings.Editing
}

func (m Model) toggleVisible() (Model, tea.Cmd) {
	if m.Visible {
		if _, err := m.session.CommitEdit(context.Background()); err != nil {
			m.fail(err)
		}
		m.editInput.Blur()
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.Visible = false
		m.session.Deactivate()
		m.app.Bus.Publish(events.PanelDeactivated{})
		return m, nil
	}
	m.Visible = true
	m.session.Activate()
	m.app.Bus.Publish(events.PanelActivated{})
	m.Screen = ScreenList
	m.clampCursor()
	return m, m.focusNewTask()
}

func (m *Model) focusNewTask() tea.Cmd {
	m.InputFocused = true
	return m.newTaskInput.Focus()
}

func (m *Model) blurNewTask() {
	m.InputFocused = false
	m.newTaskInput.Blur()
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.session.Editing() != "" {
		return m.handleEditKey(msg)
	}
	if m.InputFocused {
		return m.handleNewTaskKey(msg)
	}

	ctx := context.Background()
	tasks := m.app.Tasks.Tasks()
	selected, hasSelection := m.selected(tasks)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.Cursor = clamp(m.Cursor-1, 0, len(tasks)-1)
	case key.Matches(msg, m.keys.Down):
		m.Cursor = clamp(m.Cursor+1, 0, len(tasks)-1)
	case key.Matches(msg, m.keys.Cycle):
		if hasSelection {
			if _, err := m.app.Tasks.CycleStatus(ctx, selected.ID); err != nil {
				m.fail(err)
			}
		}
	case key.Matches(msg, m.keys.Edit):
		if hasSelection {
			return m.beginEdit(selected)
		}
	case key.Matches(msg, m.keys.NewTask):
		return m, m.focusNewTask()
	case key.Matches(msg, m.keys.EditMode):
		if m.session.ToggleEditMode() {
			m.setStatus("edit mode on")
		} else {
			m.setStatus("edit mode off")
		}
	case key.Matches(msg, m.keys.MoveUp):
		if hasSelection && m.session.EditMode() {
			m.move(selected.ID, m.app.Tasks.MoveUp)
		}
	case key.Matches(msg, m.keys.MoveDown):
		if hasSelection && m.session.EditMode() {
			m.move(selected.ID, m.app.Tasks.MoveDown)
		}
	case key.Matches(msg, m.keys.Delete):
		// Done tasks can be deleted without entering edit mode.
		if hasSelection && (m.session.EditMode() || selected.Status == model.StatusDone) {
			if err := m.app.Tasks.Delete(ctx, selected.ID); err != nil {
				m.fail(err)
			}
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Copy):
		if hasSelection {
			if err := m.clipboard(selected.Title); err != nil {
				m.app.Log.WithError(err).Warn("clipboard unavailable")
				m.fail(fmt.Errorf("copy: %w", err))
			} else {
				m.setStatus("copied: " + selected.Title)
			}
		}
	case key.Matches(msg, m.keys.ClearDone):
		n, err := m.app.Tasks.ClearDone(ctx)
		m.clampCursor()
		if err != nil {
			m.fail(err)
		} else {
			m.setStatus(fmt.Sprintf("cleared %d done task(s)", n))
		}
	case key.Matches(msg, m.keys.ClearAll):
		m.app.Bus.Publish(events.ClearAllRequested{})
	case key.Matches(msg, m.keys.Settings):
		m.app.Bus.Publish(events.ShowSettings{})
	case key.Matches(msg, m.keys.Palette):
		m.Palette = CommandPaletteState{Active: true}
		m.commandInput.SetValue("")
		m.setStatus("command palette active")
		return m, m.commandInput.Focus()
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = !m.HelpVisible
	case key.Matches(msg, m.keys.Hide):
		return m.toggleVisible()
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleNewTaskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		task, ok, err := m.app.Tasks.Add(context.Background(), m.newTaskInput.Value())
		if !ok {
			return m, nil
		}
		m.newTaskInput.SetValue("")
		if idx := indexOfTask(m.app.Tasks.Tasks(), task.ID); idx >= 0 {
			m.Cursor = idx
		}
		if err != nil {
			m.fail(err)
		}
		return m, nil
	case "esc", "tab", "down":
		m.blurNewTask()
		return m, nil
	}
	var cmd tea.Cmd
	m.newTaskInput, cmd = m.newTaskInput.Update(msg)
	return m, cmd
}

func (m Model) beginEdit(task model.Task) (Model, tea.Cmd) {
	if err := m.session.BeginEdit(context.Background(), task.ID, task.Title); err != nil {
		m.fail(err)
	}
	m.blurNewTask()
	m.editInput.SetValue(task.Title)
	m.editInput.CursorEnd()
	return m, m.editInput.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		changed, err := m.session.CommitEdit(context.Background())
		m.editInput.Blur()
		if err != nil {
			m.fail(err)
		} else if changed {
			m.setStatus("title updated")
		}
		return m, nil
	case "esc":
		m.session.CancelEdit()
		m.editInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.session.SetDraft(m.editInput.Value())
	return m, cmd
}

func (m *Model) move(id string, op func(context.Context, string) (bool, error)) {
	if _, err := op(context.Background(), id); err != nil {
		m.fail(err)
	}
	if idx := indexOfTask(m.app.Tasks.Tasks(), id); idx >= 0 {
		m.Cursor = idx
	}
}

func (m Model) selected(tasks []model.Task) (model.Task, bool) {
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m *Model) clampCursor() {
	m.Cursor = clamp(m.Cursor, 0, m.app.Tasks.Len()-1)
}

func (m Model) renderTaskList() string {
	tasks := m.app.Tasks.Tasks()
	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, t := range tasks {
		row := views.TaskRowData{
			ID:       t.ID,
			Title:    t.Title,
			Status:   m.app.Prefs.Display(t.Status),
			Done:     t.Status == model.StatusDone,
			Selected: i == m.Cursor && !m.InputFocused,
			Editing:  m.session.IsEditing(t.ID),
		}
		if row.Editing {
			row.EditView = m.editInput.View()
		}
		rows = append(rows, row)
	}
	input := m.newTaskInput
	if !m.InputFocused {
		input.Blur()
	}
	return views.RenderTaskList(views.TaskListData{
		Rows:      rows,
		EditMode:  m.session.EditMode(),
		InputView: input.View(),
	})
}

func (m Model) renderCollapsed() string {
	tasks := m.app.Tasks.Tasks()
	counts := countByStatus(tasks)
	var labels [3]string
	for i, s := range model.Statuses {
		labels[i] = m.app.Prefs.Display(s)
	}
	return views.RenderCollapsed(views.CollapsedData{
		Todo:     counts[model.StatusTodo],
		Waiting:  counts[model.StatusWaiting],
		Done:     counts[model.StatusDone],
		Labels:   labels,
		Sweeping: m.Sweeping,
		Sweep:    m.sweepSpinner.View(),
		Hint:     "click or " + ToggleKey,
	})
}
