package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-linebuilder/pkg/prompt"
)

func main() {
	cmd := newRootCommand(&app{driver: prompt.NewSurveyDriver()})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
