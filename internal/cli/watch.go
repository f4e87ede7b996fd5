package cli

import (
	"fmt"
	"time"

	"github.com/lixenwraith/cosima"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		plain    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Show a source file again every time it changes",
		Long: `Show the parameters of a source file, then reprint them after each change
until interrupted. Changes that no longer parse are reported on stderr and the
last good parameters stay in effect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.settings.LoadOptions(a.logger)
			if err != nil {
				return a.fail(err)
			}

			ctx := cmd.Context()
			w, err := cosima.Watch(ctx, args[0], opts, cosima.WatchOptions{Debounce: debounce})
			if err != nil {
				return a.fail(err)
			}
			defer w.Stop()

			events := w.Subscribe()
			a.render(w.Current(), plain)

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-events:
					if !ok {
						return nil
					}
					if event.Err != nil {
						fmt.Fprintf(a.stderr, "%s: %v\n", event.Type, event.Err)
						continue
					}
					a.logger.Info("source file reloaded", zap.String("path", event.Path))
					a.render(event.File, plain)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "plain two-column output")
	cmd.Flags().DurationVar(&debounce, "debounce", cosima.DefaultDebounce, "quiet period before a change is reloaded")
	return cmd
}

func (a *app) render(f *cosima.SourceFile, plain bool) {
	if plain {
		_ = f.WriteTable(a.stdout)
		fmt.Fprintln(a.stdout)
		return
	}
	_ = f.Print(a.stdout)
}
