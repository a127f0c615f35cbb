package update

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/fsnotify/fsnotify"
	"github.com/sandeepkv93/radar/internal/app"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/platform"
	"github.com/sandeepkv93/radar/internal/session"
	"github.com/sandeepkv93/radar/internal/views"
)

type Screen string

const (
	ScreenList     Screen = "list"
	ScreenSettings Screen = "settings"
)

// ToggleKey shows or hides the panel regardless of the configured hotkey.
const ToggleKey = "ctrl+o"

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type SettingsState struct {
	Cursor  int
	Editing bool
}

type Model struct {
	Visible      bool
	Screen       Screen
	Cursor       int
	InputFocused bool
	Sweeping     bool
	Palette      CommandPaletteState
	Settings     SettingsState
	HelpVisible  bool
	Status       StatusBar
	LoginEnabled bool
	LoginKnown   bool
	Frame        platform.Frame
	Quitting     bool
	LastError    error

	app         *app.App
	session     *session.State
	bridge      *events.Bridge
	watcher     *fsnotify.Watcher
	dataVersion int64
	sweepSeq    int
	refocusSeq  int
	flash       time.Duration
	refocus     time.Duration
	clipboard   func(string) error

	newTaskInput  textinput.Model
	editInput     textinput.Model
	commandInput  textinput.Model
	settingsInput textinput.Model
	sweepSpinner  spinner.Model
	helpModel     help.Model
	keys          keyMap
}

// Messages

type BusEventMsg struct {
	Event events.Event
}

type StoreChangedMsg struct{}

type SweepDoneMsg struct {
	Seq int
}

type RefocusMsg struct {
	Seq int
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// NewModel builds the panel on top of an opened App. The panel starts
// expanded and active with the new-task input focused.
func NewModel(a *app.App) Model {
	cfg := a.Config
	m := Model{
		Visible:      true,
		Screen:       ScreenList,
		InputFocused: true,
		app:          a,
		session:      session.New(a.Tasks),
		bridge:       events.NewBridge(a.Bus, cfg.EventBuffer),
		flash:        cfg.ActivityFlash,
		refocus:      cfg.RefocusDelay,
		clipboard:    clipboard.WriteAll,
		keys:         defaultKeyMap(),
		Frame:        platform.Frame{Width: views.DefaultPanelWidth, Height: 20},
	}
	if frame, ok, err := a.Frames.Load(context.Background()); err == nil && ok {
		m.Frame = frame
	}
	if enabled, err := a.LoginItem.Enabled(context.Background()); err == nil {
		m.LoginEnabled, m.LoginKnown = enabled, true
	} else if !errors.Is(err, platform.ErrUnsupported) {
		a.Log.WithError(err).Warn("could not query login item")
	}
	if v, err := a.Store.DataVersion(context.Background()); err == nil {
		m.dataVersion = v
	}
	m.initBubbleComponents()
	return m
}

// WithWatcher makes the panel reload when another process writes the store.
func (m Model) WithWatcher(w *fsnotify.Watcher) Model {
	m.watcher = w
	return m
}

// Close detaches the panel from the event bus.
func (m Model) Close() {
	m.bridge.Close()
}

func (m *Model) initBubbleComponents() {
	m.newTaskInput = textinput.New()
	m.newTaskInput.Prompt = "add> "
	m.newTaskInput.Placeholder = "new task"
	m.newTaskInput.CharLimit = 256
	m.newTaskInput.Width = 36
	m.newTaskInput.Focus()

	m.editInput = textinput.New()
	m.editInput.Prompt = "edit> "
	m.editInput.CharLimit = 256
	m.editInput.Width = 32

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 36

	m.settingsInput = textinput.New()
	m.settingsInput.Prompt = ""
	m.settingsInput.CharLimit = 32
	m.settingsInput.Width = 16

	m.sweepSpinner = spinner.New()
	m.sweepSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) setStatus(text string) {
	m.Status = StatusBar{Text: text}
}

// fail records err and shows it in the status bar. Engines already logged it.
func (m *Model) fail(err error) {
	if err == nil {
		return
	}
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}
