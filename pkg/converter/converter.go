// Package converter turns the body of a raw interpolated string literal into
// builder statements that append one line at a time.
package converter

import (
	"github.com/goliatone/go-linebuilder/pkg/block"
	"github.com/goliatone/go-linebuilder/pkg/dialect"
	"github.com/goliatone/go-linebuilder/pkg/emission"
)

// Option configures a Converter.
type Option func(*Converter)

// WithDelimiters replaces the default delimiter markers.
func WithDelimiters(set block.DelimiterSet) Option {
	return func(c *Converter) {
		c.delimiters = set
	}
}

// WithRenderer selects the output dialect. Nil keeps the default.
func WithRenderer(renderer dialect.Renderer) Option {
	return func(c *Converter) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// Converter holds no mutable state after construction and is safe for
// concurrent use.
type Converter struct {
	delimiters block.DelimiterSet
	renderer   dialect.Renderer
}

// New constructs a Converter using the default delimiters and the CSharp
// StringBuilder dialect unless overridden.
func New(options ...Option) *Converter {
	c := &Converter{
		delimiters: block.DefaultDelimiters(),
		renderer:   dialect.NewCSharp(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Emit builds the instruction sequence for raw.
func (c *Converter) Emit(raw string) emission.Emission {
	return emission.Build(block.Split(raw), c.delimiters)
}

// Convert renders raw in the configured dialect. Only renderers that can fail,
// such as template dialects, return an error.
func (c *Converter) Convert(raw string) (string, error) {
	return c.renderer.Render(c.Emit(raw))
}

// Dialect reports the configured renderer name.
func (c *Converter) Dialect() string {
	return c.renderer.Name()
}
