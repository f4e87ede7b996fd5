package cli

import (
	"fmt"

	"github.com/lixenwraith/cosima"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a source file to text, TOML, JSON or YAML",
		Long: `Convert a source file or snapshot to another format. The format defaults to
the "format" setting; with --out and no --format it follows the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.settings.Format
			if cmd.Flags().Changed("format") {
				name = format
			}
			target, err := cosima.ParseFormat(name)
			if err != nil {
				return a.usage("%v", err)
			}

			f, err := a.load(args[0])
			if err != nil {
				return a.fail(err)
			}

			switch {
			case out == "":
				err = f.Export(a.stdout, target)
			case cmd.Flags().Changed("format"):
				err = f.ExportFile(out, target)
			default:
				err = f.SaveSnapshot(out)
			}
			if err != nil {
				return a.fail(fmt.Errorf("conversion failed: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, toml, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}
