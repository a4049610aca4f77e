package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rfielding/kripke-del/store"
)

// historyOptions holds options for the history command.
type historyOptions struct {
	format string
}

// newHistoryCmd creates the history command.
func (a *App) newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or the steps of one run",
		Long: `List the runs stored by "run --record", oldest first. With a run ID, list
the steps of that run; --format renders each stored structure.

Examples:
  kripke-del --db runs.db history
  kripke-del --db runs.db history 3f0c... --format dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DBPath == "" {
				return ErrNoDatabase
			}
			st, err := store.Open(cmd.Context(), a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 0 {
				return a.listRuns(cmd.Context(), st)
			}
			return a.showRun(cmd.Context(), st, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Render each step: text, dot, mermaid or json")
	return cmd
}

func (a *App) listRuns(ctx context.Context, st *store.Store) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintf(a.stdout, "No runs recorded.\n")
		return nil
	}
	for _, r := range runs {
		_, _ = fmt.Fprintf(a.stdout, "%s  %s  %s\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Scenario)
	}
	return nil
}

func (a *App) showRun(ctx context.Context, st *store.Store, runID string, opts *historyOptions) error {
	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	snaps, err := st.Snapshots(ctx, runID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "Run %s: %s (%s)\n", run.ID, run.Scenario, run.CreatedAt.Format(time.RFC3339))
	for _, s := range snaps {
		_, _ = fmt.Fprintf(a.stdout, "  %2d %-8s %-30s %d worlds\n", s.Step, s.Kind, s.Label, s.Worlds)
		if opts.format != "" {
			if err := a.renderStructure(s.Structure, opts.format, fmt.Sprintf("%s_%d", run.Scenario, s.Step), false); err != nil {
				return err
			}
		}
	}
	return nil
}
