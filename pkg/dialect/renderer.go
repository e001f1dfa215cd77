// Package dialect turns an emission into source text for a particular builder
// API. The built-in CSharp renderer produces StringBuilder code; additional
// dialects can be described declaratively in package dialect/template.
package dialect

import "github.com/goliatone/go-linebuilder/pkg/emission"

// Renderer renders an emission in a named dialect.
type Renderer interface {
	Name() string
	Render(e emission.Emission) (string, error)
}
