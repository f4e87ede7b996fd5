package cli

import (
	"fmt"

	"github.com/lixenwraith/cosima"
	"github.com/spf13/cobra"
)

var sections = []string{"all", "base", "run", "source"}

func newShowCmd(a *app) *cobra.Command {
	var (
		section string
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Show the parameters of a source file",
		Long: `Show the parameters resolved from a source file. The default grid table
can be replaced by the plain two-column layout that Save writes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(args[0])
			if err != nil {
				return a.fail(err)
			}

			var params cosima.Params
			switch section {
			case "all":
				params = f.ListAllParams()
			case "base":
				params = f.ListBaseParams()
			case "run":
				params = f.ListRunParams(false)
			case "source":
				params = f.ListSourceParams()
			default:
				return a.usage("invalid --section %q (want one of %v)", section, sections)
			}

			if plain {
				if err := params.WritePlain(a.stdout); err != nil {
					return a.fail(err)
				}
				return nil
			}
			fmt.Fprintln(a.stdout, params.Grid())
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "all", "parameters to show: all, base, run or source")
	cmd.Flags().BoolVar(&plain, "plain", false, "plain two-column output")
	return cmd
}
