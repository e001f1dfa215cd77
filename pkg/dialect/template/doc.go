// Package template provides declarative dialects: each instruction kind maps to
// a pongo2 template so new builder APIs can be added from YAML or JSON files
// without writing Go code.
package template
