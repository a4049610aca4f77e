package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfielding/kripke-del/internal/logging"
	"github.com/rfielding/kripke-del/models/werewolves"
)

// newWerewolvesCmd creates the werewolves command.
func (a *App) newWerewolvesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "werewolves [roles]",
		Short: "Play the night phase of One Night Ultimate Werewolf",
		Long: `Deal the role letters to players a, b, c, ... in every distinct order and run
the night: the werewolves see each other, then the seer looks at one card.

Roles: t (townsperson), w (werewolf), s (seer), f (fool), m (minion).

Examples:
  kripke-del werewolves
  kripke-del werewolves --format dot wwst`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roles := werewolves.DefaultRoles
			if len(args) == 1 {
				roles = args[0]
			}
			g, err := werewolves.NewGame(roles)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(a.stdout, "Deal %q: %d worlds\n", roles, g.Structure.Len())
			for _, phase := range g.Night() {
				logging.NewEvent(a.logger.Info()).
					Add(
						logging.Component("werewolves"),
						logging.Operation(phase.Name),
						logging.Worlds(phase.Structure.Len()),
						logging.Pairs(phase.Structure.Relations().Len()),
					).
					Msg("phase complete")
				_, _ = fmt.Fprintf(a.stdout, "After %s: %d worlds\n", phase.Name, phase.Structure.Len())
			}
			if format == "" {
				return nil
			}
			return a.renderStructure(g.Structure, format, "werewolves_"+roles, false)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Also render the final structure: text, dot, mermaid or json")
	return cmd
}
