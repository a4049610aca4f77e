package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rfielding/kripke-del/formula"
	"github.com/rfielding/kripke-del/internal/logging"
	"github.com/rfielding/kripke-del/kripke"
	"github.com/rfielding/kripke-del/scenario"
)

// newSolveCmd creates the solve command.
func (a *App) newSolveCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "solve <scenario> <formula>",
		Short: "Announce a formula on a scenario's initial structure",
		Long: `Remove the smallest set of worlds from the scenario's initial structure so
that the formula holds at every remaining world. Steps in the file are ignored.

Examples:
  kripke-del solve two_worlds.yaml p
  kripke-del solve --format dot muddy.yaml "ma | mb | mc"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			phi, err := formula.Parse(args[1])
			if err != nil {
				return err
			}
			ks := c.Structure
			if limit := a.cfg.MaxSolveWorlds; limit > 0 && ks.Len() > limit {
				return fmt.Errorf("%w: %d worlds, limit %d", scenario.ErrTooManyWorlds, ks.Len(), limit)
			}
			out, stats := kripke.SolveWithStats(ks, phi)
			logging.NewEvent(a.logger.Info()).
				Add(
					logging.Component("cli"),
					logging.Operation("solve"),
					logging.Formula(phi.String()),
					logging.Candidates(stats.Candidates),
					logging.Worlds(out.Len()),
					logging.Str("removed", strings.Join(stats.Removed, " ")),
				).
				Msg("solved")
			return a.renderStructure(out, format, c.Name, false)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, dot, mermaid or json")
	return cmd
}

// newCheckCmd creates the check command.
func (a *App) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scenario> <formula>",
		Short: "Evaluate a formula at every world of a scenario's initial structure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			phi, err := formula.Parse(args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "%s\n", phi)
			holds := true
			for _, name := range c.Structure.Names() {
				v := phi.Semantic(c.Structure, name)
				holds = holds && v
				_, _ = fmt.Fprintf(a.stdout, "  %-12s %t\n", name, v)
			}
			if !holds {
				return ErrChecksFailed
			}
			return nil
		},
	}
}
