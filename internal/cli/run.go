package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rfielding/kripke-del/kripke"
	"github.com/rfielding/kripke-del/scenario"
	"github.com/rfielding/kripke-del/store"
)

// runOptions holds options for the run command.
type runOptions struct {
	jsonOutput bool
	record     bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run every step of a scenario",
		Long: `Run the steps of a scenario file in order.

Announcements remove the fewest worlds that make the announced formula true
everywhere, updates apply an action model by product update, and checks report
the worlds where a formula fails. The command fails when a check fails.

Examples:
  # Run a scenario
  kripke-del run muddy.yaml

  # Record every step in the history database
  kripke-del run --db runs.db --record muddy.yaml

  # Output results as JSON
  kripke-del run --json muddy.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenario(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.record, "record", false, "Store every step in the history database")

	return cmd
}

// loadScenario reads and compiles a scenario file.
func loadScenario(path string) (*scenario.Compiled, error) {
	file, err := scenario.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	c, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	return c, nil
}

// newRunner builds a runner from the merged configuration.
func (a *App) newRunner(opts ...scenario.Option) *scenario.Runner {
	base := []scenario.Option{
		scenario.WithLogger(a.logger),
		scenario.WithTracer(a.telemetry.Tracer("github.com/rfielding/kripke-del/scenario")),
		scenario.WithMaxSolveWorlds(a.cfg.MaxSolveWorlds),
	}
	return scenario.NewRunner(append(base, opts...)...)
}

func (a *App) runScenario(ctx context.Context, path string, opts *runOptions) error {
	c, err := loadScenario(path)
	if err != nil {
		return err
	}

	var runnerOpts []scenario.Option
	if opts.record {
		if a.cfg.DBPath == "" {
			return ErrNoDatabase
		}
		st, err := store.Open(ctx, a.cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		runnerOpts = append(runnerOpts, scenario.WithRecorder(st))
	}

	res, err := a.newRunner(runnerOpts...).Run(ctx, c)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newRunReport(res)); err != nil {
			return err
		}
	} else {
		a.printResult(res)
	}

	if !res.Passed() {
		return ErrChecksFailed
	}
	return nil
}

func (a *App) printResult(res *scenario.Result) {
	_, _ = fmt.Fprintf(a.stdout, "Scenario: %s (%d worlds)\n", res.Scenario, res.Initial.Len())
	for _, s := range res.Steps {
		_, _ = fmt.Fprintf(a.stdout, "  %2d %-8s %s\n", s.Index, s.Kind, s.Label)
		switch s.Kind {
		case scenario.KindAnnounce:
			_, _ = fmt.Fprintf(a.stdout, "       removed [%s] after %d candidates, %d worlds left\n",
				strings.Join(s.Removed, " "), s.Candidates, s.Structure.Len())
		case scenario.KindUpdate:
			_, _ = fmt.Fprintf(a.stdout, "       %d worlds\n", s.Structure.Len())
		case scenario.KindCheck:
			if s.Holds {
				_, _ = fmt.Fprintf(a.stdout, "       holds\n")
			} else {
				_, _ = fmt.Fprintf(a.stdout, "       FAILS at [%s]\n", strings.Join(s.Failing, " "))
			}
		}
	}
	_, _ = fmt.Fprintf(a.stdout, "Final: %s\n", res.Final)
	if res.RunID != "" {
		_, _ = fmt.Fprintf(a.stdout, "Run ID: %s\n", res.RunID)
	}
}

type stepReport struct {
	Index      int      `json:"index"`
	Kind       string   `json:"kind"`
	Label      string   `json:"label"`
	Worlds     int      `json:"worlds"`
	Candidates int      `json:"candidates,omitempty"`
	Removed    []string `json:"removed,omitempty"`
	Holds      *bool    `json:"holds,omitempty"`
	Failing    []string `json:"failing,omitempty"`
}

type runReport struct {
	RunID    string            `json:"run_id,omitempty"`
	Scenario string            `json:"scenario"`
	Passed   bool              `json:"passed"`
	Steps    []stepReport      `json:"steps"`
	Final    *kripke.Structure `json:"final"`
}

func newRunReport(res *scenario.Result) runReport {
	report := runReport{
		RunID:    res.RunID,
		Scenario: res.Scenario,
		Passed:   res.Passed(),
		Steps:    make([]stepReport, 0, len(res.Steps)),
		Final:    res.Final,
	}
	for _, s := range res.Steps {
		sr := stepReport{
			Index:      s.Index,
			Kind:       string(s.Kind),
			Label:      s.Label,
			Worlds:     s.Structure.Len(),
			Candidates: s.Candidates,
			Removed:    s.Removed,
			Failing:    s.Failing,
		}
		if s.Kind == scenario.KindCheck {
			holds := s.Holds
			sr.Holds = &holds
		}
		report.Steps = append(report.Steps, sr)
	}
	return report
}
