package cli

import (
	"github.com/spf13/cobra"
)

// renderOptions holds options for the render command.
type renderOptions struct {
	format    string
	final     bool
	selfLoops bool
}

// newRenderCmd creates the render command.
func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <scenario>",
		Short: "Render a scenario's structure as Graphviz DOT or Mermaid",
		Long: `Render the initial structure of a scenario, or with --final the structure
left after running its steps.

Examples:
  kripke-del render muddy.yaml | dot -Tsvg > muddy.svg
  kripke-del render --format mermaid --final muddy.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			ks := c.Structure
			if opts.final {
				res, err := a.newRunner().Run(cmd.Context(), c)
				if err != nil {
					return err
				}
				ks = res.Final
			}
			return a.renderStructure(ks, opts.format, c.Name, opts.selfLoops)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "Output format: dot, mermaid, text or json")
	cmd.Flags().BoolVar(&opts.final, "final", false, "Render the structure after running the steps")
	cmd.Flags().BoolVar(&opts.selfLoops, "self-loops", false, "Draw reflexive edges")

	return cmd
}
