package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/cosima"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.3.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

// app carries the state shared by one invocation of the command tree.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags
	flagConfig  string
	flagMatch   string
	flagComment string
	verbose     bool

	settings Settings
	logger   *zap.Logger

	// exitCode is set by command handlers to control the process exit code.
	exitCode int
}

// Run executes the root command with the process arguments and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, exitCode: ExitSuccess, logger: zap.NewNop()}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return a.exitCode
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Inspect and edit MEGAlib cosima source files",
		Long: `megasrc reads cosima source files, the keyword/value files that configure
a MEGAlib simulation run, and shows, converts or re-points them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.initLogger()
			return a.loadSettings(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flagConfig, "config", "", "settings file (default: discovered "+appName+".toml)")
	flags.StringVar(&a.flagMatch, "match", "", "keyword matching: keyword or substring")
	flags.StringVar(&a.flagComment, "comment", "", "comment marker; lines containing it are ignored")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log extraction steps to stderr")

	root.AddCommand(newShowCmd(a))
	root.AddCommand(newCoordCmd(a))
	root.AddCommand(newSetCoordCmd(a))
	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// initLogger builds a production JSON logger on stderr, at debug level under --verbose
func (a *app) initLogger() {
	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(a.stderr),
		config.Level,
	)
	a.logger = zap.New(core)
}

func (a *app) loadSettings(cmd *cobra.Command) error {
	settings, path, err := LoadSettings(a.flagConfig, DefaultDiscoveryOptions())
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("match") {
		settings.Match = a.flagMatch
	}
	if cmd.Flags().Changed("comment") {
		settings.Comment = a.flagComment
	}
	if _, err := settings.LoadOptions(nil); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	a.settings = settings
	a.logger.Debug("settings loaded",
		zap.String("file", path),
		zap.String("match", settings.Match),
		zap.String("comment", settings.Comment))
	return nil
}

// load reads a source file with the effective settings
func (a *app) load(path string) (*cosima.SourceFile, error) {
	opts, err := a.settings.LoadOptions(a.logger)
	if err != nil {
		return nil, err
	}
	return cosima.LoadWithOptions(path, opts)
}

// fail reports a runtime error and sets the runtime exit code
func (a *app) fail(err error) error {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	a.exitCode = ExitRuntimeError
	return nil
}

// usage reports a bad invocation that cobra's own checks cannot catch
func (a *app) usage(format string, args ...any) error {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
	a.exitCode = ExitUsageError
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print megasrc version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s version %s\n", appName, version)
		},
	}
}
