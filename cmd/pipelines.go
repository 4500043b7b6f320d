// File: cmd/pipelines.go
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/conduit/internal/config"
	"github.com/xkilldash9x/conduit/internal/modules"
)

// newPipelinesCmd creates the `pipelines` command, which lists the
// configured pipelines and the available modules without starting an agent.
func newPipelinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pipelines",
		Short: "Lists configured pipelines and available modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.Pipelines))
			for name := range cfg.Pipelines {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Pipelines:")
			if len(names) == 0 {
				fmt.Fprintln(out, "  (none configured)")
			}
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(cfg.Pipelines[name], " -> "))
			}

			fmt.Fprintln(out, "Modules:")
			for _, d := range modules.Builtins() {
				fmt.Fprintf(out, "  %s\n", d.Name)
			}
			return nil
		},
	}
}
