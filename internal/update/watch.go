package update

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sandeepkv93/radar/internal/events"
)

// NewStoreWatcher watches the directory holding the database so writes from
// other radar processes can be picked up.
func NewStoreWatcher(dbPath string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(dbPath)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// watchStore waits for a change to the database file (or its journal) and
// coalesces bursts into a single StoreChangedMsg.
func watchStore(watcher *fsnotify.Watcher, dbPath string) tea.Cmd {
	base := filepath.Base(dbPath)
	relevant := func(ev fsnotify.Event) bool {
		return strings.HasPrefix(filepath.Base(ev.Name), base) &&
			(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove))
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !relevant(ev) {
					continue
				}
				time.Sleep(100 * time.Millisecond)
			drain:
				for {
					select {
					case _, ok := <-watcher.Events:
						if !ok {
							break drain
						}
					default:
						break drain
					}
				}
				return StoreChangedMsg{}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// reloadIfChanged re-reads the store when another connection wrote to it.
// The panel's own writes leave data_version untouched and are skipped.
func (m Model) reloadIfChanged() Model {
	ctx := context.Background()
	v, err := m.app.Store.DataVersion(ctx)
	if err != nil {
		m.fail(err)
		return m
	}
	if v == m.dataVersion {
		return m
	}
	m.dataVersion = v
	if err := m.app.Tasks.Load(ctx); err != nil {
		m.fail(err)
		return m
	}
	if err := m.app.Prefs.Flush(ctx); err != nil {
		m.fail(err)
	}
	if err := m.app.Prefs.Load(ctx); err != nil {
		m.fail(err)
	}
	m.clampCursor()
	return m
}

func waitForEventCmd(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return BusEventMsg{Event: ev}
	}
}
