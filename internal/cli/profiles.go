package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chosenoffset.com/constellation/internal/field"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in particle profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tCOLORS\tBOUNDARY\tMIN WIDTH")
			for _, name := range field.Names() {
				p, _ := field.Lookup(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%g\n", p.Name, p.ParticleCount, p.ColorMode, p.Boundary, p.MinStartWidth)
			}
			return w.Flush()
		},
	}
}
