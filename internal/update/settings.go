package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/prefs"
	"github.com/sandeepkv93/radar/internal/views"
)

type settingsField int

const (
	fieldTodoSymbol settingsField = iota
	fieldTodoLabel
	fieldWaitingSymbol
	fieldWaitingLabel
	fieldDoneSymbol
	fieldDoneLabel
	fieldUseSymbols
	fieldOpacity
	fieldHotkey
	fieldLogin
	fieldCount
)

const opacityStep = 0.05

func (f settingsField) label() string {
	switch f {
	case fieldTodoSymbol:
		return "on me symbol"
	case fieldTodoLabel:
		return "on me label"
	case fieldWaitingSymbol:
		return "waiting symbol"
	case fieldWaitingLabel:
		return "waiting label"
	case fieldDoneSymbol:
		return "done symbol"
	case fieldDoneLabel:
		return "done label"
	case fieldUseSymbols:
		return "use symbols"
	case fieldOpacity:
		return "inactive opacity"
	case fieldHotkey:
		return "hotkey"
	case fieldLogin:
		return "start at login"
	default:
		return ""
	}
}

// status returns the status a symbol/label field belongs to.
func (f settingsField) status() (model.Status, bool) {
	switch f {
	case fieldTodoSymbol, fieldTodoLabel:
		return model.StatusTodo, true
	case fieldWaitingSymbol, fieldWaitingLabel:
		return model.StatusWaiting, true
	case fieldDoneSymbol, fieldDoneLabel:
		return model.StatusDone, true
	default:
		return "", false
	}
}

func (f settingsField) isSymbol() bool {
	return f == fieldTodoSymbol || f == fieldWaitingSymbol || f == fieldDoneSymbol
}

func (f settingsField) isText() bool {
	_, ok := f.status()
	return ok || f == fieldOpacity || f == fieldHotkey
}

func (m Model) openSettings() (Model, tea.Cmd) {
	if _, err := m.session.CommitEdit(context.Background()); err != nil {
		m.fail(err)
	}
	m.blurNewTask()
	m.Visible = true
	m.Screen = ScreenSettings
	m.Settings = SettingsState{}
	return m, nil
}

// closeSettings returns to the list and re-arms input focus once the
// refocus delay has passed.
func (m Model) closeSettings() (Model, tea.Cmd) {
	m.Screen = ScreenList
	m.Settings = SettingsState{}
	m.settingsInput.Blur()
	m.refocusSeq++
	seq := m.refocusSeq
	return m, tea.Tick(m.refocus, func(time.Time) tea.Msg { return RefocusMsg{Seq: seq} })
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	field := settingsField(m.Settings.Cursor)
	if m.Settings.Editing {
		switch msg.String() {
		case "enter":
			m.applySetting(field, m.settingsInput.Value())
			m.Settings.Editing = false
			m.settingsInput.Blur()
			return m, nil
		case "esc":
			m.Settings.Editing = false
			m.settingsInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.settingsInput, cmd = m.settingsInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.Settings.Cursor = clamp(m.Settings.Cursor-1, 0, int(fieldCount)-1)
	case key.Matches(msg, m.keys.Down):
		m.Settings.Cursor = clamp(m.Settings.Cursor+1, 0, int(fieldCount)-1)
	case key.Matches(msg, m.keys.ToggleBool), key.Matches(msg, m.keys.Edit):
		switch {
		case field == fieldUseSymbols:
			p, _ := m.app.Prefs.Current()
			use := !p.UseSymbols
			m.app.Prefs.Update(prefs.Patch{UseSymbols: &use})
		case field == fieldLogin:
			m.setLogin(!m.LoginEnabled)
		case field.isText() && key.Matches(msg, m.keys.Edit):
			m.Settings.Editing = true
			m.settingsInput.SetValue(m.settingValue(field))
			m.settingsInput.CursorEnd()
			return m, m.settingsInput.Focus()
		}
	case key.Matches(msg, m.keys.Decrease):
		if field == fieldOpacity {
			m.nudgeOpacity(-opacityStep)
		}
	case key.Matches(msg, m.keys.Increase):
		if field == fieldOpacity {
			m.nudgeOpacity(opacityStep)
		}
	case key.Matches(msg, m.keys.Reset):
		m.resetPreferences()
	case key.Matches(msg, m.keys.Settings), key.Matches(msg, m.keys.Hide):
		return m.closeSettings()
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) applySetting(field settingsField, raw string) {
	ctx := context.Background()
	if status, ok := field.status(); ok {
		values := map[model.Status]string{status: raw}
		if field.isSymbol() {
			m.app.Prefs.Update(prefs.Patch{Symbols: values})
		} else {
			m.app.Prefs.Update(prefs.Patch{Labels: values})
		}
		return
	}
	switch field {
	case fieldOpacity:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			m.fail(fmt.Errorf("opacity must be a number, got %q", raw))
			return
		}
		m.app.Prefs.Update(prefs.Patch{InactivePanelOpacity: &v})
	case fieldHotkey:
		h, err := model.ParseHotkey(raw)
		if err != nil {
			m.fail(err)
			return
		}
		if err := m.app.Prefs.SetHotkey(ctx, h); err != nil {
			m.fail(err)
		}
	}
}

func (m *Model) nudgeOpacity(delta float64) {
	p, _ := m.app.Prefs.Current()
	v := model.ClampOpacity(p.InactivePanelOpacity + delta)
	m.app.Prefs.Update(prefs.Patch{InactivePanelOpacity: &v})
}

func (m *Model) resetPreferences() {
	if err := m.app.Prefs.ResetToDefaults(context.Background()); err != nil {
		m.fail(err)
		return
	}
	m.setStatus("preferences reset to defaults")
}

func (m *Model) setLogin(enabled bool) {
	if err := m.app.SetLoginItem(context.Background(), enabled); err != nil {
		m.fail(err)
		return
	}
	m.LoginEnabled, m.LoginKnown = enabled, true
	if enabled {
		m.setStatus("start at login enabled")
	} else {
		m.setStatus("start at login disabled")
	}
}

func (m Model) settingValue(field settingsField) string {
	p, _ := m.app.Prefs.Current()
	if status, ok := field.status(); ok {
		d := p.DisplayFor(status)
		if field.isSymbol() {
			return d.Symbol
		}
		return d.Label
	}
	switch field {
	case fieldUseSymbols:
		return onOff(p.UseSymbols)
	case fieldOpacity:
		return strconv.FormatFloat(p.InactivePanelOpacity, 'f', 2, 64)
	case fieldHotkey:
		h, err := m.app.Prefs.Hotkey(context.Background())
		if err != nil {
			return "?"
		}
		return h.String()
	case fieldLogin:
		if !m.LoginKnown {
			return "unavailable"
		}
		return onOff(m.LoginEnabled)
	default:
		return ""
	}
}

func (m Model) renderSettings() string {
	fields := make([]views.SettingsField, 0, int(fieldCount))
	for f := settingsField(0); f < fieldCount; f++ {
		fields = append(fields, views.SettingsField{
			Label:    f.label(),
			Value:    m.settingValue(f),
			Selected: int(f) == m.Settings.Cursor,
			Editing:  m.Settings.Editing && int(f) == m.Settings.Cursor,
		})
	}
	return views.RenderSettings(views.SettingsData{
		Fields:    fields,
		InputView: m.settingsInput.View(),
		Note:      "enter edit · space toggle · h/l opacity · r reset · esc close",
	})
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
