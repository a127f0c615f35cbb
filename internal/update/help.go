package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/radar/internal/views"
)

const aboutMarkdown = `# radar

Things that are **on you**, things you are **waiting** on, and things that are **done**.
Press ` + "`space`" + ` to move a task along, ` + "`/`" + ` for commands.`

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Cycle      key.Binding
	Edit       key.Binding
	NewTask    key.Binding
	EditMode   key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Delete     key.Binding
	Copy       key.Binding
	ClearDone  key.Binding
	ClearAll   key.Binding
	Settings   key.Binding
	Palette    key.Binding
	Help       key.Binding
	Hide       key.Binding
	Quit       key.Binding
	ToggleBool key.Binding
	Decrease   key.Binding
	Increase   key.Binding
	Reset      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Cycle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle status")),
		Edit:       key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit title")),
		NewTask:    key.NewBinding(key.WithKeys("n", "a", "tab"), key.WithHelp("n", "new task")),
		EditMode:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit mode")),
		MoveUp:     key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy title")),
		ClearDone:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear done")),
		ClearAll:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		Settings:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
		Palette:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "commands")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Hide:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc/"+ToggleKey, "hide")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ToggleBool: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Decrease:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "less")),
		Increase:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "more")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset defaults")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cycle, k.NewTask, k.EditMode, k.Palette, k.Help, k.Hide}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Cycle, k.Edit, k.NewTask, k.Copy},
		{k.EditMode, k.MoveUp, k.MoveDown, k.Delete},
		{k.ClearDone, k.ClearAll, k.Settings, k.Palette, k.Help, k.Hide, k.Quit},
	}
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			plain = append(plain, fmt.Sprintf("- %s: %s", b.Help().Key, b.Help().Desc))
		}
	}
	full := m.helpModel
	full.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		About:    views.RenderMarkdown(aboutMarkdown),
		Bindings: plain,
		HelpView: full.View(m.keys),
	})
}
