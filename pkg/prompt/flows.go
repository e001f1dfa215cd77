package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-linebuilder/pkg/rewrite"
)

// ReadTemplate asks for a template body. An empty answer is returned as is;
// the converter accepts it.
func ReadTemplate(ctx context.Context, driver Driver) (string, error) {
	return driver.TextArea(ctx, TextAreaConfig{
		Message: "Paste the raw string literal",
		Help:    `Include the opening and closing """ lines or just the body.`,
	})
}

// ChooseDialect asks the user to pick one of names, preselecting current.
func ChooseDialect(ctx context.Context, driver Driver, names []string, current string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("prompt: no dialects available")
	}
	defaultIndex := 0
	for i, name := range names {
		if name == current {
			defaultIndex = i
		}
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message:      "Output dialect",
		Options:      names,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", fmt.Errorf("prompt: invalid dialect selection %d", idx)
	}
	return names[idx], nil
}

// ConfirmWrite adapts driver into a rewrite.ConfirmFunc that summarises the
// replacements before asking.
func ConfirmWrite(driver Driver) rewrite.ConfirmFunc {
	return func(ctx context.Context, path string, result rewrite.Result) (bool, error) {
		return driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Rewrite %s (%s)?", path, summarize(result.Counts)),
			Default: true,
		})
	}
}

func summarize(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name, n := range counts {
		if n > 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "no replacements"
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}
