package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID       string
	Title    string
	Status   string
	Done     bool
	Selected bool
	Editing  bool
	EditView string
}

type TaskListData struct {
	Rows      []TaskRowData
	EditMode  bool
	InputView string
}

var doneStyle = footerStyle.Strikethrough(true)

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	if len(data.Rows) == 0 {
		b.WriteString("nothing on your radar\n")
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		title := row.Title
		switch {
		case row.Editing:
			title = row.EditView
		case row.Done:
			title = doneStyle.Render(title)
		}
		handle := ""
		if data.EditMode {
			handle = "≡ "
		}
		b.WriteString(fmt.Sprintf("%s %s[%s] %s\n", cursor, handle, row.Status, title))
	}
	b.WriteString("\n")
	b.WriteString(data.InputView)
	return strings.TrimSuffix(b.String(), "\n")
}

type SettingsField struct {
	Label    string
	Value    string
	Selected bool
	Editing  bool
}

type SettingsData struct {
	Fields    []SettingsField
	InputView string
	Note      string
}

func RenderSettings(data SettingsData) string {
	var b strings.Builder
	b.WriteString("settings\n\n")
	for _, f := range data.Fields {
		cursor := " "
		if f.Selected {
			cursor = ">"
		}
		value := f.Value
		if f.Editing {
			value = data.InputView
		}
		b.WriteString(fmt.Sprintf("%s %-16s %s\n", cursor, f.Label, value))
	}
	if data.Note != "" {
		b.WriteString("\n" + data.Note + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

type HelpPanelData struct {
	About    string
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	parts := []string{}
	if strings.TrimSpace(data.About) != "" {
		parts = append(parts, data.About)
	}
	parts = append(parts, "keys:\n"+strings.Join(data.Bindings, "\n"))
	if data.HelpView != "" {
		parts = append(parts, data.HelpView)
	}
	return strings.Join(parts, "\n\n")
}
