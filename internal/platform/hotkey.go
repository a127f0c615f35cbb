package platform

import (
	"errors"
	"sync"

	"github.com/sandeepkv93/radar/internal/model"
)

var ErrNoHotkey = errors.New("platform: no hotkey configured")

// HotkeyManager holds at most one registered hotkey and its handler. The
// panel feeds every key press through Handle.
type HotkeyManager struct {
	mu      sync.Mutex
	current model.Hotkey
	handler func()
}

func NewHotkeyManager() *HotkeyManager {
	return &HotkeyManager{}
}

// Register replaces any existing binding. The zero Hotkey is never
// registered: the previous binding is dropped and ErrNoHotkey returned.
func (m *HotkeyManager) Register(h model.Hotkey, handler func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current, m.handler = model.Hotkey{}, nil
	if h.IsZero() {
		return ErrNoHotkey
	}
	m.current, m.handler = h, handler
	return nil
}

func (m *HotkeyManager) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current, m.handler = model.Hotkey{}, nil
}

func (m *HotkeyManager) Registered() (model.Hotkey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, !m.current.IsZero()
}

// Handle runs the handler if h is the registered hotkey.
func (m *HotkeyManager) Handle(h model.Hotkey) bool {
	m.mu.Lock()
	handler := m.handler
	match := !m.current.IsZero() && m.current == h
	m.mu.Unlock()
	if !match {
		return false
	}
	if handler != nil {
		handler()
	}
	return true
}
