package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-linebuilder/pkg/prompt"
	"github.com/goliatone/go-linebuilder/pkg/rewrite"
)

type rewriteOptions struct {
	rules   string
	dryRun  bool
	confirm bool
}

func newRewriteCommand(a *app) *cobra.Command {
	opts := &rewriteOptions{}
	cmd := &cobra.Command{
		Use:   "rewrite <file>...",
		Short: "Apply regex rewrite rules to the listed files in place",
		Long: `Applies the rule set to every listed file and writes each result back to
the same path. Failures are reported per file; the remaining files are still
processed. Directories are not traversed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rules") {
				opts.rules = a.cfg.Rules
			}
			return runRewrite(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.rules, "rules", "r", "", "Built-in rule set name or path to a YAML rules file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report changes without writing files")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "Ask before writing each changed file")
	return cmd
}

func runRewrite(cmd *cobra.Command, a *app, opts *rewriteOptions, paths []string) error {
	rules, err := resolveRules(opts.rules)
	if err != nil {
		return err
	}
	a.logger.Debug("rules loaded", "source", opts.rules, "rules", rules.Names())

	options := []rewrite.Option{
		rewrite.WithLogger(a.logger),
		rewrite.WithDryRun(opts.dryRun),
	}
	if opts.confirm {
		options = append(options, rewrite.WithConfirm(prompt.ConfirmWrite(a.driver)))
	}

	reports := rewrite.NewPatcher(rules, options...).Patch(cmd.Context(), paths...)

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for _, report := range reports {
		switch {
		case report.Err != nil:
			fmt.Fprintf(errOut, "Error fixing %s: %v\n", report.Path, report.Err)
		case report.Written:
			fmt.Fprintf(out, "Fixed %s\n", report.Path)
		case report.Skipped:
			fmt.Fprintf(out, "Skipped %s\n", report.Path)
		case report.Changed:
			fmt.Fprintf(out, "Would fix %s\n", report.Path)
		default:
			fmt.Fprintf(out, "Unchanged %s\n", report.Path)
		}
	}

	if failed := rewrite.Failed(reports); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(reports))
	}
	return nil
}

func resolveRules(source string) (*rewrite.Ruleset, error) {
	if rules, ok := rewrite.Builtin(source); ok {
		return rules, nil
	}
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("rules %q is neither a built-in set nor a readable file: %w", source, err)
	}
	return rewrite.LoadRules(os.DirFS(filepath.Dir(source)), filepath.Base(source))
}
