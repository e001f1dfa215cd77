package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	linebuilder "github.com/goliatone/go-linebuilder"
	"github.com/goliatone/go-linebuilder/internal/config"
	"github.com/goliatone/go-linebuilder/pkg/dialect"
	"github.com/goliatone/go-linebuilder/pkg/prompt"
)

// app carries state shared by subcommands once the root pre-run resolved it.
type app struct {
	driver prompt.Driver
	lookup func(string) (string, bool)

	configFile string
	envFile    string
	verbose    bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "linebuilder",
		Short: "Convert raw string literals into builder calls and rewrite sources with regex rules",
		Long: `linebuilder turns the body of a multi-line interpolated string literal into
StringBuilder-style statements, one append per line, and applies ordered
regular-expression rules to explicitly listed source files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file with LINEBUILDER_* settings")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(
		newConvertCommand(a),
		newRewriteCommand(a),
		newDialectsCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Sources{
		ConfigFile: a.configFile,
		EnvFile:    a.envFile,
		Lookup:     a.lookup,
	})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) registry(dialectsDir, accumulator string) (*dialect.Registry, error) {
	if dialectsDir == "" {
		return linebuilder.NewRegistry(nil, accumulator)
	}
	a.logger.Debug("loading dialects", "dir", dialectsDir)
	return linebuilder.NewRegistry(os.DirFS(dialectsDir), accumulator)
}

func newDialectsCommand(a *app) *cobra.Command {
	var dialectsDir string
	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List available output dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("dialects-dir") {
				dialectsDir = a.cfg.DialectsDir
			}
			registry, err := a.registry(dialectsDir, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range registry.List() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dialectsDir, "dialects-dir", "", "Directory with extra YAML/JSON dialect definitions")
	return cmd
}
