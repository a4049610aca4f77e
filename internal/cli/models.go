package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rfielding/kripke-del/kripke"
	"github.com/rfielding/kripke-del/models"
	"github.com/rfielding/kripke-del/scenario"
)

// newModelsCmd creates the models command.
func (a *App) newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the built-in models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range models.All() {
				ks := m.BuildStructure()
				summary, _, _ := strings.Cut(m.OriginalText(), "\n")
				_, _ = fmt.Fprintf(a.stdout, "%-12s %3d worlds  %s\n", m.Name(), ks.Len(), summary)
				for _, f := range m.Formulas() {
					_, _ = fmt.Fprintf(a.stdout, "    %-28s %s\n", f.Name, f.Formula)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(a.newModelsExportCmd())
	return cmd
}

// newModelsExportCmd creates the models export command.
func (a *App) newModelsExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <model>",
		Short: "Write a built-in model as a scenario file",
		Long: `Write the initial structure of a built-in model as a scenario file, with one
check step per formula the model ships with.

Examples:
  kripke-del models export muddy > muddy.yaml
  kripke-del run muddy.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := models.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown model %q", args[0])
			}
			data, err := scenario.Marshal(exportModel(m), scenario.Format(format))
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(scenario.FormatYAML), "Output format: yaml or json")
	return cmd
}

func exportModel(m kripke.ModelSpec) *scenario.File {
	file := scenario.FromStructure(m.Name(), m.BuildStructure())
	for _, f := range m.Formulas() {
		file.Steps = append(file.Steps, scenario.StepSpec{Check: f.Formula})
	}
	return file
}
