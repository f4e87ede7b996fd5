package cli

import (
	"fmt"

	"github.com/lixenwraith/cosima"
	"github.com/lixenwraith/cosima/sky"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCoordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coord <file>",
		Short: "Print the sky position of the source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(args[0])
			if err != nil {
				return a.fail(err)
			}
			src := f.Source()
			g, err := src.Coordinate()
			if err != nil {
				return a.fail(err)
			}

			params := cosima.Params{
				{Key: "source", Value: src.Name},
				{Key: "orientation", Value: src.Orientation},
				{Key: "galactic", Value: g.String()},
				{Key: "equatorial", Value: g.Equatorial().String()},
			}
			if err := params.WritePlain(a.stdout); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
}

func newSetCoordCmd(a *app) *cobra.Command {
	var (
		l, b, ra, dec float64
		out           string
	)

	cmd := &cobra.Command{
		Use:   "set-coord <file>",
		Short: "Move the source to a new sky position",
		Long: `Replace the coordinate at the end of the source orientation. The position is
given either in galactic (--l, --b) or J2000 equatorial (--ra, --dec) degrees;
equatorial positions are converted to galactic before they are written.

Without --out the updated parameters are printed as a plain table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			galactic := flags.Changed("l") || flags.Changed("b")
			equatorial := flags.Changed("ra") || flags.Changed("dec")

			var c sky.Coordinate
			switch {
			case galactic && equatorial:
				return a.usage("--l/--b and --ra/--dec are mutually exclusive")
			case galactic:
				if !flags.Changed("l") || !flags.Changed("b") {
					return a.usage("--l and --b must be given together")
				}
				c = sky.Galactic{L: l, B: b}
			case equatorial:
				if !flags.Changed("ra") || !flags.Changed("dec") {
					return a.usage("--ra and --dec must be given together")
				}
				c = sky.Equatorial{RA: ra, Dec: dec}
			default:
				return a.usage("a position is required: --l and --b, or --ra and --dec")
			}

			f, err := a.load(args[0])
			if err != nil {
				return a.fail(err)
			}
			if err := f.SetCoordinate(c); err != nil {
				return a.fail(err)
			}

			if out == "" {
				if err := f.WriteTable(a.stdout); err != nil {
					return a.fail(err)
				}
				return nil
			}
			if err := f.SaveSnapshot(out); err != nil {
				return a.fail(fmt.Errorf("failed to write '%s': %w", out, err))
			}
			a.logger.Info("source moved",
				zap.String("source", f.Source().Name),
				zap.String("orientation", f.Source().Orientation),
				zap.String("out", out))
			return nil
		},
	}

	cmd.Flags().Float64Var(&l, "l", 0, "galactic longitude in degrees")
	cmd.Flags().Float64Var(&b, "b", 0, "galactic latitude in degrees")
	cmd.Flags().Float64Var(&ra, "ra", 0, "J2000 right ascension in degrees")
	cmd.Flags().Float64Var(&dec, "dec", 0, "J2000 declination in degrees")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result to this file (format by extension)")
	return cmd
}
