package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MaxLabelRunes       = 7
	MinPanelOpacity     = 0.1
	MaxPanelOpacity     = 1.0
	DefaultPanelOpacity = 0.9
	DefaultUseSymbols   = false
	maxSymbolRunes      = 1
)

type StatusDisplay struct {
	Symbol string
	Label  string
}

type Preferences struct {
	Todo                 StatusDisplay
	Waiting              StatusDisplay
	Done                 StatusDisplay
	UseSymbols           bool
	InactivePanelOpacity float64
}

func DefaultPreferences() Preferences {
	return Preferences{
		Todo:                 StatusDisplay{Symbol: "-", Label: "on me"},
		Waiting:              StatusDisplay{Symbol: ".", Label: "waiting"},
		Done:                 StatusDisplay{Symbol: "/", Label: "done"},
		UseSymbols:           DefaultUseSymbols,
		InactivePanelOpacity: DefaultPanelOpacity,
	}
}

// FallbackLabel is shown when no preferences record exists yet.
func FallbackLabel(s Status) string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusDone:
		return "done"
	default:
		return "on me"
	}
}

func (p Preferences) DisplayFor(s Status) StatusDisplay {
	switch s {
	case StatusWaiting:
		return p.Waiting
	case StatusDone:
		return p.Done
	default:
		return p.Todo
	}
}

func (p *Preferences) SetDisplay(s Status, d StatusDisplay) {
	switch s {
	case StatusWaiting:
		p.Waiting = d
	case StatusDone:
		p.Done = d
	default:
		p.Todo = d
	}
}

// Display renders a status as its symbol or label depending on UseSymbols.
func (p Preferences) Display(s Status) string {
	d := p.DisplayFor(s)
	if p.UseSymbols {
		return d.Symbol
	}
	return d.Label
}

func (p Preferences) Validate() error {
	for _, s := range Statuses {
		d := p.DisplayFor(s)
		if utf8.RuneCountInString(d.Symbol) != maxSymbolRunes {
			return fmt.Errorf("model: %s symbol must be a single character, got %q", s, d.Symbol)
		}
		if d.Label == "" || utf8.RuneCountInString(d.Label) > MaxLabelRunes {
			return fmt.Errorf("model: %s label must be 1-%d characters, got %q", s, MaxLabelRunes, d.Label)
		}
	}
	if p.InactivePanelOpacity < MinPanelOpacity || p.InactivePanelOpacity > MaxPanelOpacity {
		return errors.New("model: inactive panel opacity out of range")
	}
	return nil
}

// NormalizeSymbol keeps the first character of raw. ok is false for blank input.
func NormalizeSymbol(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(raw)
	return string(r), true
}

// NormalizeLabel truncates raw to MaxLabelRunes characters. ok is false for blank input.
func NormalizeLabel(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if utf8.RuneCountInString(raw) <= MaxLabelRunes {
		return raw, true
	}
	return string([]rune(raw)[:MaxLabelRunes]), true
}

func ClampOpacity(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultPanelOpacity
	}
	if v < MinPanelOpacity {
		return MinPanelOpacity
	}
	if v > MaxPanelOpacity {
		return MaxPanelOpacity
	}
	return v
}
