package rewrite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// FileSystem is the file access the Patcher needs. WriteFile replaces the
// content of an existing file.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFS) WriteFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}

// ConfirmFunc decides whether a changed file is written back.
type ConfirmFunc func(ctx context.Context, path string, result Result) (bool, error)

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the structured logger used for per-file progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Patcher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDryRun computes results without writing files.
func WithDryRun(enabled bool) Option {
	return func(p *Patcher) {
		p.dryRun = enabled
	}
}

// WithConfirm asks fn before every write.
func WithConfirm(fn ConfirmFunc) Option {
	return func(p *Patcher) {
		p.confirm = fn
	}
}

// WithFileSystem overrides disk access.
func WithFileSystem(fsys FileSystem) Option {
	return func(p *Patcher) {
		if fsys != nil {
			p.fs = fsys
		}
	}
}

// FileReport records the outcome for one path.
type FileReport struct {
	Path    string
	Changed bool
	Written bool
	Skipped bool
	Counts  map[string]int
	Err     error
}

// Patcher applies a Ruleset to an explicit list of files, writing each result
// back to the path it was read from.
type Patcher struct {
	rules   *Ruleset
	logger  *slog.Logger
	dryRun  bool
	confirm ConfirmFunc
	fs      FileSystem
}

// NewPatcher constructs a Patcher for rules.
func NewPatcher(rules *Ruleset, options ...Option) *Patcher {
	p := &Patcher{
		rules:  rules,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		fs:     osFS{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Patch processes paths in order. A failure on one file is recorded in its
// report and does not stop the remaining files; cancellation does, and the
// unprocessed paths report the context error.
func (p *Patcher) Patch(ctx context.Context, paths ...string) []FileReport {
	reports := make([]FileReport, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			reports = append(reports, FileReport{Path: path, Err: err})
			continue
		}
		reports = append(reports, p.PatchFile(ctx, path))
	}
	return reports
}

// PatchFile processes a single path.
func (p *Patcher) PatchFile(ctx context.Context, path string) FileReport {
	report := FileReport{Path: path}
	if p.rules == nil {
		report.Err = errors.New("rewrite: ruleset is required")
		return report
	}

	data, err := p.fs.ReadFile(path)
	if err != nil {
		report.Err = err
		p.logger.Error("read failed", "path", path, "error", err)
		return report
	}

	result := p.rules.Apply(string(data))
	report.Changed = result.Changed
	report.Counts = result.Counts
	p.logger.Debug("rules applied", "path", path, "changed", result.Changed, "replacements", result.Total())

	if !result.Changed || p.dryRun {
		return report
	}

	if p.confirm != nil {
		ok, err := p.confirm(ctx, path, result)
		if err != nil {
			report.Err = err
			return report
		}
		if !ok {
			report.Skipped = true
			p.logger.Info("write skipped", "path", path)
			return report
		}
	}

	if err := p.fs.WriteFile(path, []byte(result.Content)); err != nil {
		report.Err = err
		p.logger.Error("write failed", "path", path, "error", err)
		return report
	}
	report.Written = true
	p.logger.Info("file rewritten", "path", path, "replacements", result.Total())
	return report
}

// Failed counts reports that carry an error.
func Failed(reports []FileReport) int {
	n := 0
	for _, report := range reports {
		if report.Err != nil {
			n++
		}
	}
	return n
}
