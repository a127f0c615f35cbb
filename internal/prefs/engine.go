package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/scheduler"
	"github.com/sandeepkv93/radar/internal/storage"
	"github.com/sirupsen/logrus"
)

const DefaultSaveDelay = 500 * time.Millisecond

type Store interface {
	storage.PreferencesRepository
	storage.StateRepository
}

// Patch carries field-level preference changes. Nil fields and missing map
// entries are left alone.
type Patch struct {
	Symbols              map[model.Status]string
	Labels               map[model.Status]string
	UseSymbols           *bool
	InactivePanelOpacity *float64
}

func (p Patch) IsEmpty() bool {
	return len(p.Symbols) == 0 && len(p.Labels) == 0 && p.UseSymbols == nil && p.InactivePanelOpacity == nil
}

// Engine holds the singleton preferences record. Updates are applied in
// memory at once and written by a debounced save.
type Engine struct {
	mu       sync.Mutex
	store    Store
	bus      *events.Bus
	log      logrus.FieldLogger
	now      func() time.Time
	debounce *scheduler.Debouncer

	prefs  model.Preferences
	exists bool
	dirty  bool
	saves  int
}

func NewEngine(store Store, bus *events.Bus, logger logrus.FieldLogger, saveDelay time.Duration) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if saveDelay <= 0 {
		saveDelay = DefaultSaveDelay
	}
	e := &Engine{
		store: store,
		bus:   bus,
		log:   logger.WithField("component", "prefs"),
		now:   func() time.Time { return time.Now().UTC() },
		prefs: model.DefaultPreferences(),
	}
	e.debounce = scheduler.NewDebouncer(saveDelay, e.saveInBackground)
	return e
}

// Load reads the stored record. A missing record is not an error.
func (e *Engine) Load(ctx context.Context) error {
	row, err := e.store.GetPreferences(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		e.mu.Lock()
		e.exists = false
		e.prefs = model.DefaultPreferences()
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.log.WithError(err).Error("failed to load preferences")
		return fmt.Errorf("load preferences: %w", err)
	}
	e.mu.Lock()
	e.prefs = fromEntity(row)
	e.exists = true
	e.dirty = false
	e.mu.Unlock()
	return nil
}

// EnsureDefaults creates and persists the default record when none exists.
// created reports whether a record was written.
func (e *Engine) EnsureDefaults(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.exists {
		return false, nil
	}
	row, err := e.store.GetPreferences(ctx)
	if err == nil {
		e.prefs = fromEntity(row)
		e.exists = true
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		e.log.WithError(err).Error("failed to read preferences")
		return false, fmt.Errorf("read preferences: %w", err)
	}
	e.prefs = model.DefaultPreferences()
	e.exists = true
	e.dirty = true
	if err := e.saveLocked(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Current returns the record and whether one exists.
func (e *Engine) Current() (model.Preferences, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs, e.exists
}

// Display renders a status for the list. Without a record the fallback
// labels are used.
func (e *Engine) Display(s model.Status) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.exists {
		return model.FallbackLabel(s)
	}
	return e.prefs.Display(s)
}

// Update applies p and schedules a coalesced write. Blank symbols and labels
// are ignored; symbols keep their first character, labels are cut to
// model.MaxLabelRunes and opacity is clamped.
func (e *Engine) Update(p Patch) model.Preferences {
	e.mu.Lock()
	changed := false
	if !e.exists {
		e.prefs = model.DefaultPreferences()
		e.exists = true
		changed = true
	}
	for _, s := range model.Statuses {
		d := e.prefs.DisplayFor(s)
		if raw, ok := p.Symbols[s]; ok {
			if sym, valid := model.NormalizeSymbol(raw); valid && sym != d.Symbol {
				d.Symbol = sym
				changed = true
			}
		}
		if raw, ok := p.Labels[s]; ok {
			if label, valid := model.NormalizeLabel(raw); valid && label != d.Label {
				d.Label = label
				changed = true
			}
		}
		e.prefs.SetDisplay(s, d)
	}
	if p.UseSymbols != nil && *p.UseSymbols != e.prefs.UseSymbols {
		e.prefs.UseSymbols = *p.UseSymbols
		changed = true
	}
	opacityChanged := false
	if p.InactivePanelOpacity != nil {
		v := model.ClampOpacity(*p.InactivePanelOpacity)
		if v != e.prefs.InactivePanelOpacity {
			e.prefs.InactivePanelOpacity = v
			opacityChanged = true
			changed = true
		}
	}
	if changed {
		e.dirty = true
	}
	out := e.prefs
	e.mu.Unlock()

	if changed {
		if err := e.debounce.Trigger(); err != nil {
			e.log.WithError(err).Warn("preferences save not scheduled")
		}
	}
	if opacityChanged {
		e.bus.Publish(events.OpacityChanged{Opacity: out.InactivePanelOpacity})
	}
	return out
}

// SavePending reports whether a debounced write is waiting.
func (e *Engine) SavePending() bool {
	return e.debounce.Pending()
}

// Saves counts completed writes of the record.
func (e *Engine) Saves() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saves
}

// Flush cancels the pending timer and writes now if anything changed.
func (e *Engine) Flush(ctx context.Context) error {
	e.debounce.Cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

func (e *Engine) Close(ctx context.Context) error {
	err := e.Flush(ctx)
	e.debounce.Stop()
	return err
}

// ResetToDefaults restores every field, persists immediately and clears the
// hotkey binding.
func (e *Engine) ResetToDefaults(ctx context.Context) error {
	e.debounce.Cancel()

	e.mu.Lock()
	e.prefs = model.DefaultPreferences()
	e.exists = true
	e.dirty = true
	saveErr := e.saveLocked(ctx)
	opacity := e.prefs.InactivePanelOpacity
	e.mu.Unlock()

	hotkeyErr := e.writeHotkey(ctx, model.Hotkey{})
	e.bus.Publish(events.OpacityChanged{Opacity: opacity})
	e.bus.Publish(events.HotkeyUpdated{Hotkey: model.Hotkey{}})
	return errors.Join(saveErr, hotkeyErr)
}

// Hotkey returns the stored hotkey pair, or the zero Hotkey when none is set.
func (e *Engine) Hotkey(ctx context.Context) (model.Hotkey, error) {
	code, err := e.readState(ctx, storage.StateHotkeyKeyCode)
	if err != nil {
		return model.Hotkey{}, err
	}
	mods, err := e.readState(ctx, storage.StateHotkeyModifiers)
	if err != nil {
		return model.Hotkey{}, err
	}
	return model.Hotkey{KeyCode: code, Modifiers: mods}, nil
}

func (e *Engine) SetHotkey(ctx context.Context, h model.Hotkey) error {
	if err := e.writeHotkey(ctx, h); err != nil {
		return err
	}
	e.bus.Publish(events.HotkeyUpdated{Hotkey: h})
	return nil
}

func (e *Engine) writeHotkey(ctx context.Context, h model.Hotkey) error {
	if err := e.store.SetState(ctx, storage.StateHotkeyKeyCode, strconv.FormatUint(uint64(h.KeyCode), 10)); err != nil {
		e.log.WithError(err).Error("failed to persist hotkey")
		return fmt.Errorf("save hotkey: %w", err)
	}
	if err := e.store.SetState(ctx, storage.StateHotkeyModifiers, strconv.FormatUint(uint64(h.Modifiers), 10)); err != nil {
		e.log.WithError(err).Error("failed to persist hotkey")
		return fmt.Errorf("save hotkey: %w", err)
	}
	return nil
}

func (e *Engine) readState(ctx context.Context, key string) (uint32, error) {
	raw, err := e.store.GetState(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		e.log.WithError(err).WithField("key", key).Warn("ignoring malformed hotkey value")
		return 0, nil
	}
	return uint32(v), nil
}

func (e *Engine) saveInBackground() {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.saveLocked(context.Background())
}

// saveLocked writes the record if dirty. Caller holds mu.
func (e *Engine) saveLocked(ctx context.Context) error {
	if !e.dirty || !e.exists {
		return nil
	}
	row := toEntity(e.prefs)
	row.UpdatedAt = e.now()
	if err := e.store.SavePreferences(ctx, row); err != nil {
		e.log.WithError(err).Error("failed to persist preferences")
		return fmt.Errorf("save preferences: %w", err)
	}
	e.dirty = false
	e.saves++
	return nil
}

func toEntity(p model.Preferences) storage.Preferences {
	return storage.Preferences{
		TodoSymbol:           p.Todo.Symbol,
		TodoLabel:            p.Todo.Label,
		WaitingSymbol:        p.Waiting.Symbol,
		WaitingLabel:         p.Waiting.Label,
		DoneSymbol:           p.Done.Symbol,
		DoneLabel:            p.Done.Label,
		UseSymbols:           p.UseSymbols,
		InactivePanelOpacity: p.InactivePanelOpacity,
	}
}

// fromEntity maps a stored row, repairing fields a hand-edited database may
// have left invalid.
func fromEntity(in storage.Preferences) model.Preferences {
	out := model.DefaultPreferences()
	stored := map[model.Status]model.StatusDisplay{
		model.StatusTodo:    {Symbol: in.TodoSymbol, Label: in.TodoLabel},
		model.StatusWaiting: {Symbol: in.WaitingSymbol, Label: in.WaitingLabel},
		model.StatusDone:    {Symbol: in.DoneSymbol, Label: in.DoneLabel},
	}
	for s, d := range stored {
		cur := out.DisplayFor(s)
		if sym, ok := model.NormalizeSymbol(d.Symbol); ok {
			cur.Symbol = sym
		}
		if label, ok := model.NormalizeLabel(d.Label); ok {
			cur.Label = label
		}
		out.SetDisplay(s, cur)
	}
	out.UseSymbols = in.UseSymbols
	out.InactivePanelOpacity = model.ClampOpacity(in.InactivePanelOpacity)
	return out
}
