// Package linebuilder converts multi-line interpolated string literals into
// builder code that appends one line at a time, and rewrites source files with
// ordered regular-expression rules.
package linebuilder

import (
	"io/fs"

	"github.com/goliatone/go-linebuilder/pkg/converter"
	"github.com/goliatone/go-linebuilder/pkg/dialect"
	"github.com/goliatone/go-linebuilder/pkg/dialect/template"
	"github.com/goliatone/go-linebuilder/pkg/emission"
	"github.com/goliatone/go-linebuilder/pkg/rewrite"
)

var (
	defaultRenderer  = dialect.NewCSharp()
	defaultConverter = converter.New(converter.WithRenderer(defaultRenderer))
)

// Convert rewrites the body of a raw interpolated string literal as
// StringBuilder statements. It accepts any input and never fails; delimiter
// lines are dropped, blank lines become parameterless appends, and lines with
// both '{' and '}' keep their substitutions live.
func Convert(raw string) string {
	return defaultRenderer.Format(defaultConverter.Emit(raw))
}

// Emit exposes the instruction sequence Convert renders.
func Emit(raw string) emission.Emission {
	return defaultConverter.Emit(raw)
}

// NewConverter exposes the converter constructor from the top-level module.
func NewConverter(options ...converter.Option) *converter.Converter {
	return converter.New(options...)
}

// NewRegistry returns a registry holding the built-in csharp dialect, the
// embedded template dialects and any definitions found in extra. A non-empty
// accumulator overrides the builder variable name of every dialect.
func NewRegistry(extra fs.FS, accumulator string) (*dialect.Registry, error) {
	registry := dialect.NewRegistry()
	registry.MustRegister(dialect.NewCSharp(dialect.WithAccumulator(accumulator)))

	defs, err := template.Embedded()
	if err != nil {
		return nil, err
	}
	if err := template.RegisterAll(registry, defs, template.WithAccumulator(accumulator)); err != nil {
		return nil, err
	}

	if extra == nil {
		return registry, nil
	}
	custom, err := template.LoadFS(extra)
	if err != nil {
		return nil, err
	}
	if err := template.RegisterAll(registry, custom, template.WithFS(extra), template.WithAccumulator(accumulator)); err != nil {
		return nil, err
	}
	return registry, nil
}

// NewPatcher exposes the rewrite patcher constructor.
func NewPatcher(rules *rewrite.Ruleset, options ...rewrite.Option) *rewrite.Patcher {
	return rewrite.NewPatcher(rules, options...)
}
