package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/radar/internal/update"
	"github.com/spf13/cobra"
)

func runPanel(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	s, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	s.BindHotkey(ctx)
	m := update.NewModel(s.App)
	if s.Config.WatchStore {
		watcher, err := update.NewStoreWatcher(s.Config.DBPath)
		if err != nil {
			s.Log.WithError(err).Warn("store watcher unavailable")
		} else {
			defer watcher.Close()
			m = m.WithWatcher(watcher)
		}
	}
	defer m.Close()

	program := tea.NewProgram(m, tea.WithReportFocus(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		s.Log.WithError(err).Error("panel exited with error")
		return err
	}
	return nil
}
