package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrInvalidHotkey = errors.New("model: invalid hotkey")

const (
	ModShift uint32 = 1 << iota
	ModCtrl
	ModAlt
)

// Hotkey is a key code plus modifier mask. The zero value means no hotkey is bound.
type Hotkey struct {
	KeyCode   uint32
	Modifiers uint32
}

func (h Hotkey) IsZero() bool {
	return h.KeyCode == 0 && h.Modifiers == 0
}

// String renders the hotkey in the notation bubbletea uses for key messages.
func (h Hotkey) String() string {
	if h.IsZero() {
		return "none"
	}
	parts := make([]string, 0, 4)
	if h.Modifiers&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if h.Modifiers&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if h.Modifiers&ModShift != 0 {
		parts = append(parts, "shift")
	}
	parts = append(parts, string(rune(h.KeyCode)))
	return strings.Join(parts, "+")
}

// ParseHotkey accepts strings like "ctrl+t" or "alt+shift+r". "none", "off"
// and the empty string yield the zero Hotkey.
func ParseHotkey(raw string) (Hotkey, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "", "none", "off":
		return Hotkey{}, nil
	}
	parts := strings.Split(raw, "+")
	var out Hotkey
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl":
			out.Modifiers |= ModCtrl
		case "alt":
			out.Modifiers |= ModAlt
		case "shift":
			out.Modifiers |= ModShift
		default:
			return Hotkey{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidHotkey, p)
		}
	}
	last := parts[len(parts)-1]
	if utf8.RuneCountInString(last) != 1 {
		return Hotkey{}, fmt.Errorf("%w: key must be a single character, got %q", ErrInvalidHotkey, last)
	}
	r, _ := utf8.DecodeRuneInString(last)
	out.KeyCode = uint32(r)
	return out, nil
}
