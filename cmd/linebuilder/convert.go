package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-linebuilder/internal/config"
	"github.com/goliatone/go-linebuilder/pkg/converter"
	"github.com/goliatone/go-linebuilder/pkg/prompt"
)

type convertOptions struct {
	input       string
	output      string
	dialect     string
	dialectsDir string
	accumulator string
	interactive bool
}

func newConvertCommand(a *app) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a raw interpolated string literal into builder statements",
		Long: `Reads the literal from the file argument, --input, an interactive prompt
(--interactive) or stdin, in that order, and prints the generated statements.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.input = args[0]
			}
			opts.applyDefaults(cmd.Flags(), a.cfg)
			return runConvert(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "File containing the literal (stdin when empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the statements to this file instead of stdout")
	cmd.Flags().StringVarP(&opts.dialect, "dialect", "d", "", "Output dialect name, see the dialects command")
	cmd.Flags().StringVar(&opts.dialectsDir, "dialects-dir", "", "Directory with extra YAML/JSON dialect definitions")
	cmd.Flags().StringVar(&opts.accumulator, "accumulator", "", "Builder variable name")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "Prompt for the literal and dialect")
	return cmd
}

// applyDefaults fills options the user did not set explicitly from cfg.
func (o *convertOptions) applyDefaults(flags *pflag.FlagSet, cfg config.Config) {
	if !flags.Changed("dialect") {
		o.dialect = cfg.Dialect
	}
	if !flags.Changed("dialects-dir") {
		o.dialectsDir = cfg.DialectsDir
	}
	if !flags.Changed("accumulator") {
		o.accumulator = cfg.Accumulator
	}
}

func runConvert(cmd *cobra.Command, a *app, opts *convertOptions) error {
	ctx := cmd.Context()

	registry, err := a.registry(opts.dialectsDir, opts.accumulator)
	if err != nil {
		return err
	}

	raw, err := readLiteral(cmd, a, opts)
	if err != nil {
		return err
	}

	name := opts.dialect
	if opts.interactive && !cmd.Flags().Changed("dialect") {
		name, err = prompt.ChooseDialect(ctx, a.driver, registry.List(), name)
		if err != nil {
			return err
		}
	}

	renderer, err := registry.Get(name)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.List(), ", "))
	}

	out, err := converter.New(converter.WithRenderer(renderer)).Convert(raw)
	if err != nil {
		return err
	}
	a.logger.Debug("converted literal", "dialect", name, "bytes", len(raw))

	if opts.output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	if err := writeFile(opts.output, []byte(out+"\n")); err != nil {
		return err
	}
	a.logger.Info("wrote output", "path", opts.output)
	return nil
}

func readLiteral(cmd *cobra.Command, a *app, opts *convertOptions) (string, error) {
	switch {
	case opts.input != "":
		data, err := os.ReadFile(opts.input)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", opts.input, err)
		}
		return string(data), nil
	case opts.interactive:
		return prompt.ReadTemplate(cmd.Context(), a.driver)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
