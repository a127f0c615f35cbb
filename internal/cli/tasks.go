package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/radar/internal/model"
	"github.com/spf13/cobra"
)

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			task, ok, err := s.Tasks.Add(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to add")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			out := cmd.OutOrStdout()
			tasks := s.Tasks.Tasks()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "nothing on your radar")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "%s  %-7s  %s\n", shortID(t.ID), s.Prefs.Display(t.Status), t.Title)
			}
			return nil
		},
	}
}

func newCycleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id-prefix>",
		Short: "Advance a task to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			task, err := findByPrefix(s.Tasks.Tasks(), args[0])
			if err != nil {
				return err
			}
			updated, err := s.Tasks.CycleStatus(ctx, task.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", shortID(updated.ID), updated.Title, s.Prefs.Display(updated.Status))
			return nil
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	var doneOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks, or only done ones with --done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			var n int
			if doneOnly {
				n, err = s.Tasks.ClearDone(ctx)
			} else {
				n, err = s.Tasks.ClearAll(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d task(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&doneOnly, "done", false, "only clear done tasks")
	return cmd
}

func findByPrefix(tasks []model.Task, prefix string) (model.Task, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return model.Task{}, errors.New("id prefix is empty")
	}
	var matches []model.Task
	for _, t := range tasks {
		if strings.HasPrefix(strings.ToLower(t.ID), prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("no task matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("%d tasks match %q, use a longer prefix", len(matches), prefix)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
