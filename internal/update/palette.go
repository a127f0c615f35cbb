package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/radar/internal/commands"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/prefs"
	"github.com/sandeepkv93/radar/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, ok, err := m.app.Tasks.Add(ctx, a.Title)
			if !ok {
				return commands.Result{Message: "nothing to add"}, nil
			}
			if err != nil {
				return commands.Result{}, err
			}
			m.Cursor = indexOfTask(m.app.Tasks.Tasks(), task.ID)
			return commands.Result{Message: fmt.Sprintf("added: %s", task.Title)}, nil
		},
		Clear: func(c commands.ClearArgs) (commands.Result, error) {
			if c.DoneOnly {
				n, err := m.app.Tasks.ClearDone(ctx)
				m.clampCursor()
				return commands.Result{Message: fmt.Sprintf("cleared %d done task(s)", n)}, err
			}
			n, err := m.app.Tasks.ClearAll(ctx)
			m.clampCursor()
			return commands.Result{Message: fmt.Sprintf("cleared %d task(s)", n)}, err
		},
		Symbols: func(t commands.ToggleArgs) (commands.Result, error) {
			m.app.Prefs.Update(prefs.Patch{UseSymbols: &t.On})
			return commands.Result{Message: "symbols " + onOff(t.On)}, nil
		},
		Opacity: func(o commands.OpacityArgs) (commands.Result, error) {
			p := m.app.Prefs.Update(prefs.Patch{InactivePanelOpacity: &o.Value})
			return commands.Result{Message: fmt.Sprintf("inactive opacity %.2f", p.InactivePanelOpacity)}, nil
		},
		Symbol: func(d commands.DisplayArgs) (commands.Result, error) {
			p := m.app.Prefs.Update(prefs.Patch{Symbols: map[model.Status]string{d.Status: d.Text}})
			return commands.Result{Message: fmt.Sprintf("%s symbol: %s", d.Status, p.DisplayFor(d.Status).Symbol)}, nil
		},
		Label: func(d commands.DisplayArgs) (commands.Result, error) {
			p := m.app.Prefs.Update(prefs.Patch{Labels: map[model.Status]string{d.Status: d.Text}})
			return commands.Result{Message: fmt.Sprintf("%s label: %s", d.Status, p.DisplayFor(d.Status).Label)}, nil
		},
		Hotkey: func(h commands.HotkeyArgs) (commands.Result, error) {
			if err := m.app.Prefs.SetHotkey(ctx, h.Hotkey); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "hotkey: " + h.Hotkey.String()}, nil
		},
		Login: func(t commands.ToggleArgs) (commands.Result, error) {
			if err := m.app.SetLoginItem(ctx, t.On); err != nil {
				return commands.Result{}, err
			}
			m.LoginEnabled, m.LoginKnown = t.On, true
			return commands.Result{Message: "start at login " + onOff(t.On)}, nil
		},
		Reset: func() (commands.Result, error) {
			if err := m.app.Prefs.ResetToDefaults(ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "preferences reset to defaults"}, nil
		},
		Normalize: func() (commands.Result, error) {
			changed, err := m.app.Tasks.NormalizeOrder(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			if !changed {
				return commands.Result{Message: "order already consistent"}, nil
			}
			return commands.Result{Message: "order normalized"}, nil
		},
		Position: func() (commands.Result, error) {
			m.app.Bus.Publish(events.ResetPanelPosition{})
			return commands.Result{Message: "panel position reset"}, nil
		},
	})
	if err != nil {
		m.fail(err)
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}

	m.closePalette()
	return m
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}
