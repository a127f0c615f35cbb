package update

import (
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/radar/internal/model"
)

// keyToHotkey converts a key press into the Hotkey it would match. Upper
// case letters carry the shift modifier.
func keyToHotkey(msg tea.KeyMsg) (model.Hotkey, bool) {
	s := msg.String()
	h, err := model.ParseHotkey(s)
	if err != nil || h.IsZero() {
		return model.Hotkey{}, false
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsUpper(last) {
		h.Modifiers |= model.ModShift
	}
	return h, true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func indexOfTask(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func countByStatus(tasks []model.Task) map[model.Status]int {
	out := make(map[model.Status]int, len(model.Statuses))
	for _, t := range tasks {
		out[t.Status]++
	}
	return out
}
