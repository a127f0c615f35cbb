package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrefsCmd(opts *options) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage preferences",
	}
	prefsCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default symbols, labels and opacity and clear the hotkey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if err := s.Prefs.ResetToDefaults(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "preferences reset to defaults")
			return nil
		},
	})
	return prefsCmd
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "radar %s\n", opts.version)
		},
	}
}
