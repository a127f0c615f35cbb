package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/platform"
	"github.com/sandeepkv93/radar/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEventCmd(m.bridge.C()), textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, watchStore(m.watcher, m.app.Config.DBPath))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.MouseMsg:
		if !m.Visible && typed.Action == tea.MouseActionPress && typed.Button == tea.MouseButtonLeft {
			m.app.Bus.Publish(events.TogglePanel{})
		}
		return m, nil
	case tea.FocusMsg:
		m.session.Activate()
		m.app.Bus.Publish(events.PanelActivated{})
		return m, nil
	case tea.BlurMsg:
		m.session.Deactivate()
		m.app.Bus.Publish(events.PanelDeactivated{})
		return m, nil
	case tea.WindowSizeMsg:
		m.saveFrame(typed.Width, typed.Height)
		return m, nil
	case BusEventMsg:
		next, cmd := m.handleBusEvent(typed.Event)
		return next, tea.Batch(cmd, waitForEventCmd(next.bridge.C()))
	case StoreChangedMsg:
		m = m.reloadIfChanged()
		if m.watcher != nil {
			return m, watchStore(m.watcher, m.app.Config.DBPath)
		}
		return m, nil
	case SweepDoneMsg:
		if typed.Seq == m.sweepSeq {
			m.Sweeping = false
		}
		return m, nil
	case RefocusMsg:
		if typed.Seq == m.refocusSeq && m.Visible && m.Screen == ScreenList && m.session.Editing() == "" {
			return m, m.focusNewTask()
		}
		return m, nil
	case spinner.TickMsg:
		if m.Sweeping {
			var cmd tea.Cmd
			m.sweepSpinner, cmd = m.sweepSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.session.Editing() != "":
		m.editInput, cmd = m.editInput.Update(msg)
	case m.InputFocused:
		m.newTaskInput, cmd = m.newTaskInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleBusEvent(ev events.Event) (Model, tea.Cmd) {
	switch typed := ev.(type) {
	case events.TaskAdded:
		m.Sweeping = true
		m.sweepSeq++
		seq := m.sweepSeq
		return m, tea.Batch(
			m.sweepSpinner.Tick,
			tea.Tick(m.flash, func(time.Time) tea.Msg { return SweepDoneMsg{Seq: seq} }),
		)
	case events.TasksCleared, events.TasksReloaded:
		m.clampCursor()
	case events.TogglePanel:
		return m.toggleVisible()
	case events.ShowSettings:
		return m.openSettings()
	case events.ClearAllRequested:
		n, err := m.app.Tasks.ClearAll(context.Background())
		m.clampCursor()
		if err != nil {
			m.fail(err)
		} else {
			m.setStatus(fmt.Sprintf("cleared %d task(s)", n))
		}
	case events.ResetPanelPosition:
		if err := m.app.Frames.Reset(context.Background()); err != nil {
			m.fail(err)
		}
		m.Frame = platform.Frame{Width: views.DefaultPanelWidth, Height: 20}
	case events.HotkeyUpdated:
		m.setStatus("hotkey: " + typed.Hotkey.String())
	}
	return m, nil
}

func (m *Model) saveFrame(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	frame := platform.Frame{X: m.Frame.X, Y: m.Frame.Y, Width: min(width-4, views.DefaultPanelWidth*2), Height: height}
	if frame.Width < 20 {
		frame.Width = 20
	}
	if frame == m.Frame {
		return
	}
	m.Frame = frame
	if err := m.app.Frames.Save(context.Background(), frame); err != nil {
		m.app.Log.WithError(err).Warn("could not save panel frame")
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if !m.Visible {
		return m.renderCollapsed()
	}

	header := "radar"
	if m.Sweeping {
		header += " " + m.sweepSpinner.View()
	}
	if m.session.EditMode() {
		header += " | edit mode"
	}
	if !m.session.Active() {
		header += " | inactive"
	}

	body := m.renderTaskList()
	if m.Screen == ScreenSettings {
		body = m.renderSettings()
	}
	extras := strings.TrimSpace(strings.Join([]string{m.renderCommandPalette(), m.renderHelpIfVisible()}, "\n"))
	if extras != "" {
		body += "\n\n" + extras
	}

	p, _ := m.app.Prefs.Current()
	return views.RenderApp(views.AppData{
		Header:        header,
		Body:          body,
		StatusLine:    m.Status.Text,
		StatusIsError: m.Status.IsError,
		Footer:        m.helpModel.ShortHelpView(m.keys.ShortHelp()),
		Width:         m.Frame.Width,
		Inactive:      !m.session.Active(),
		Opacity:       p.InactivePanelOpacity,
	})
}
