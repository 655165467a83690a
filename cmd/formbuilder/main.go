package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/app"
	"github.com/goliatone/go-formbuilder/pkg/config"
)

// cliOptions carries the persistent flags and the state PersistentPreRunE
// builds from them.
type cliOptions struct {
	configPath string
	driver     string
	path       string
	key        string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "formbuilder",
		Short: "Build forms and try them out from the terminal",
		Long: `formbuilder edits a form of Text, Number and True/False questions,
each with optional validation rules, and persists it in a key-value slot.

Run without arguments to open the builder; switch to the tester to fill the
saved form in and see how its rules behave.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML config file")
	flags.StringVar(&opts.driver, "driver", "", "storage driver (memory, file, sqlite)")
	flags.StringVar(&opts.path, "path", "", "storage location (directory for file, database for sqlite)")
	flags.StringVar(&opts.key, "key", "", "storage key the form is kept under")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(opts),
		newBuildCmd(opts),
		newAddCmd(opts),
		newTestCmd(opts),
		newRenderCmd(opts),
		newExportCmd(opts),
		newShowCmd(opts),
		newResetCmd(opts),
	)
	return root
}

// setup loads the config file, lets explicit flags win over it and builds
// the logger.
func (o *cliOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Storage.Driver = o.driver
	}
	if flags.Changed("path") {
		cfg.Storage.Path = o.path
	}
	if flags.Changed("key") {
		cfg.Storage.Key = o.key
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}

func (o *cliOptions) openSession(ctx context.Context, confirmer app.Confirmer) (*formbuilder.Session, error) {
	return formbuilder.OpenSession(ctx, o.cfg, confirmer, o.logger)
}
