// Package app wires the store, engines and platform shims together.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sandeepkv93/radar/internal/config"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/platform"
	"github.com/sandeepkv93/radar/internal/prefs"
	"github.com/sandeepkv93/radar/internal/storage"
	"github.com/sandeepkv93/radar/internal/tasks"
	"github.com/sirupsen/logrus"
)

type App struct {
	Config    config.RuntimeConfig
	Log       logrus.FieldLogger
	Store     *storage.SQLiteRepository
	Bus       *events.Bus
	Tasks     *tasks.Engine
	Prefs     *prefs.Engine
	Hotkeys   *platform.HotkeyManager
	Frames    *platform.FrameStore
	LoginItem platform.LoginItem

	unsubscribe []func()
}

// Open prepares everything the panel and the CLI need. An error here means
// the data store is unusable.
func Open(ctx context.Context, cfg config.RuntimeConfig, logger logrus.FieldLogger) (*App, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	a := &App{
		Config:    cfg,
		Log:       logger,
		Store:     store,
		Bus:       bus,
		Tasks:     tasks.NewEngine(store, bus, logger),
		Prefs:     prefs.NewEngine(store, bus, logger, cfg.PrefsSaveDelay),
		Hotkeys:   platform.NewHotkeyManager(),
		Frames:    platform.NewFrameStore(store),
		LoginItem: platform.NewLoginItem(cfg.LoginItemName, executable()),
	}

	if err := a.Prefs.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	if _, err := a.Prefs.EnsureDefaults(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := a.Tasks.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	if _, err := a.Tasks.NormalizeOrder(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.WithField("db", cfg.DBPath).WithField("tasks", a.Tasks.Len()).Debug("data store ready")
	return a, nil
}

// BindHotkey registers the stored hotkey and keeps the registration in sync
// with later changes. Triggering it publishes events.TogglePanel.
func (a *App) BindHotkey(ctx context.Context) {
	a.unsubscribe = append(a.unsubscribe, events.Listen(a.Bus, func(ev events.HotkeyUpdated) {
		a.registerHotkey(ev.Hotkey)
	}))
	h, err := a.Prefs.Hotkey(ctx)
	if err != nil {
		a.Log.WithError(err).Warn("could not read hotkey")
		return
	}
	a.registerHotkey(h)
}

func (a *App) registerHotkey(h model.Hotkey) {
	err := a.Hotkeys.Register(h, func() { a.Bus.Publish(events.TogglePanel{}) })
	switch {
	case errors.Is(err, platform.ErrNoHotkey):
		a.Log.Debug("no hotkey bound")
	case err != nil:
		a.Log.WithError(err).WithField("hotkey", h.String()).Warn("hotkey registration failed")
	default:
		a.Log.WithField("hotkey", h.String()).Info("hotkey registered")
	}
}

// SetLoginItem toggles start-at-login. Failures are logged and returned; the
// feature just stays off.
func (a *App) SetLoginItem(ctx context.Context, enabled bool) error {
	if err := a.LoginItem.SetEnabled(ctx, enabled); err != nil {
		a.Log.WithError(err).WithField("enabled", enabled).Warn("login item update failed")
		return fmt.Errorf("login item: %w", err)
	}
	return nil
}

func (a *App) Close(ctx context.Context) error {
	for _, cancel := range a.unsubscribe {
		cancel()
	}
	a.unsubscribe = nil
	a.Hotkeys.Unregister()
	prefsErr := a.Prefs.Close(ctx)
	storeErr := a.Store.Close()
	return errors.Join(prefsErr, storeErr)
}

func executable() string {
	path, err := os.Executable()
	if err != nil {
		return config.AppName
	}
	return path
}
