package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sandeepkv93/radar/internal/app"
	"github.com/sandeepkv93/radar/internal/config"
	"github.com/sandeepkv93/radar/internal/logging"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	version    string
}

// Execute runs the radar command line.
func Execute(version string) error {
	root := newRootCmd(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	opts := &options{version: version}
	root := &cobra.Command{
		Use:   "radar",
		Short: "radar - what is on you, what you are waiting on, what is done",
		Long: `radar keeps a short list of tasks in three states: on me, waiting and done.

Run without arguments to open the panel.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPanel(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/radar/config.yaml)")

	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newCycleCmd(opts))
	root.AddCommand(newClearCmd(opts))
	root.AddCommand(newPrefsCmd(opts))
	root.AddCommand(newVersionCmd(opts))
	root.Version = version
	return root
}

// session bundles an opened App with the resources that must be released
// after the command finishes.
type session struct {
	*app.App
	logFile io.Closer
}

func (s *session) Close(ctx context.Context) error {
	err := s.App.Close(ctx)
	_ = s.logFile.Close()
	return err
}

func openApp(ctx context.Context, opts *options) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("could not initialize data store")
		_ = logFile.Close()
		return nil, fmt.Errorf("could not initialize data store: %w", err)
	}
	return &session{App: a, logFile: logFile}, nil
}
