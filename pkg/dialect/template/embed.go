package template

import (
	"embed"
	"io/fs"
)

//go:embed definitions/*
var embeddedDefinitions embed.FS

// EmbeddedFS returns the bundled dialect definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Embedded loads the bundled dialect definitions.
func Embedded() ([]Definition, error) {
	return LoadFS(EmbeddedFS())
}
