package model

import (
	"errors"
	"testing"
)

func TestParseHotkey(t *testing.T) {
	hk, err := ParseHotkey("ctrl+alt+t")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if hk.KeyCode != 't' || hk.Modifiers != ModCtrl|ModAlt {
		t.Fatalf("unexpected hotkey: %+v", hk)
	}
	if hk.String() != "ctrl+alt+t" {
		t.Fatalf("round trip string = %q", hk.String())
	}
}

func TestParseHotkeyNone(t *testing.T) {
	for _, raw := range []string{"", "none", "OFF"} {
		hk, err := ParseHotkey(raw)
		if err != nil || !hk.IsZero() {
			t.Fatalf("ParseHotkey(%q) = %+v, %v", raw, hk, err)
		}
	}
	if (Hotkey{}).String() != "none" {
		t.Fatal("zero hotkey should render as none")
	}
}

func TestParseHotkeyErrors(t *testing.T) {
	for _, raw := range []string{"hyper+t", "ctrl+tab"} {
		if _, err := ParseHotkey(raw); !errors.Is(err, ErrInvalidHotkey) {
			t.Fatalf("ParseHotkey(%q) expected ErrInvalidHotkey, got %v", raw, err)
		}
	}
}
