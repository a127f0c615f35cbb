package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/radar/internal/config"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sirupsen/logrus/hooks/test"
)

func testConfig(t *testing.T) config.RuntimeConfig {
	t.Helper()
	cfg := config.DefaultRuntimeConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "radar.db")
	cfg.PrefsSaveDelay = 20 * time.Millisecond
	return cfg
}

func TestOpenCreatesStoreWithDefaults(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig(t)
	a, err := Open(testContext(t), cfg, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p, ok := a.Prefs.Current()
	if !ok || p != model.DefaultPreferences() {
		t.Fatalf("expected persisted defaults, got %+v ok=%v", p, ok)
	}
	if _, _, err := a.Tasks.Add(testContext(t), "persisted"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := a.Close(testContext(t)); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(testContext(t), cfg, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close(testContext(t))
	if got := reopened.Tasks.Tasks(); len(got) != 1 || got[0].Title != "persisted" {
		t.Fatalf("task not reloaded: %+v", got)
	}
}

func TestOpenFailsOnUnusablePath(t *testing.T) {
	cfg := config.DefaultRuntimeConfig()
	cfg.DBPath = t.TempDir()
	if _, err := Open(testContext(t), cfg, nil); err == nil {
		t.Fatal("expected a directory path to fail")
	}
}

func TestHotkeyBindingFollowsUpdates(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a, err := Open(testContext(t), testConfig(t), logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close(testContext(t))

	toggles := 0
	events.Listen(a.Bus, func(events.TogglePanel) { toggles++ })
	a.BindHotkey(testContext(t))
	if _, ok := a.Hotkeys.Registered(); ok {
		t.Fatal("no hotkey is bound by default")
	}

	h := model.Hotkey{KeyCode: 'o', Modifiers: model.ModCtrl | model.ModShift}
	if err := a.Prefs.SetHotkey(testContext(t), h); err != nil {
		t.Fatalf("set hotkey: %v", err)
	}
	if !a.Hotkeys.Handle(h) || toggles != 1 {
		t.Fatalf("hotkey did not toggle panel, toggles=%d", toggles)
	}

	if err := a.Prefs.SetHotkey(testContext(t), model.Hotkey{}); err != nil {
		t.Fatalf("clear hotkey: %v", err)
	}
	if _, ok := a.Hotkeys.Registered(); ok {
		t.Fatal("zero hotkey must unregister")
	}
}
