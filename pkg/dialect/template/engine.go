package template

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-linebuilder/pkg/dialect"
	"github.com/goliatone/go-linebuilder/pkg/emission"
)

const defaultAccumulator = "sb"

// Option configures a template-backed renderer before construction.
type Option func(*config)

type config struct {
	partials    fs.FS
	accumulator string
	globals     map[string]any
}

// WithFS sets the filesystem used to resolve {% include %} partials. The
// embedded definitions are used when omitted.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.partials = files
	}
}

// WithAccumulator overrides the accumulator name declared by the definition.
func WithAccumulator(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.accumulator = trimmed
		}
	}
}

// WithGlobals seeds values available to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Renderer renders emissions through compiled pongo2 templates.
type Renderer struct {
	name        string
	accumulator string
	separator   string
	templates   map[emission.Kind]*pongo2.Template
}

var _ dialect.Renderer = (*Renderer)(nil)

// New validates def and compiles its templates.
func New(def Definition, options ...Option) (*Renderer, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	cfg := &config{accumulator: strings.TrimSpace(def.Accumulator)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.accumulator == "" {
		cfg.accumulator = defaultAccumulator
	}
	if cfg.partials == nil {
		cfg.partials = EmbeddedFS()
	}

	set := pongo2.NewSet("linebuilder-"+def.Name, pongo2.NewFSLoader(cfg.partials))
	if len(cfg.globals) > 0 {
		set.Globals = pongo2.Context(cfg.globals)
	}

	r := &Renderer{
		name:        def.Name,
		accumulator: cfg.accumulator,
		separator:   "\n",
		templates:   make(map[emission.Kind]*pongo2.Template, len(kinds)),
	}
	if def.Separator != nil {
		r.separator = *def.Separator
	}

	for _, kind := range kinds {
		// Generated code is not HTML; turn off pongo2's default escaping.
		src := "{% autoescape off %}" + def.source(kind) + "{% endautoescape %}"
		tmpl, err := set.FromString(src)
		if err != nil {
			return nil, fmt.Errorf("template: dialect %q: parse %q template: %w", def.Name, kind, err)
		}
		r.templates[kind] = tmpl
	}

	return r, nil
}

// Name reports the dialect identifier.
func (r *Renderer) Name() string {
	return r.name
}

// Render executes the template for every instruction and joins the results
// with the dialect separator.
func (r *Renderer) Render(e emission.Emission) (string, error) {
	if r == nil || r.templates == nil {
		return "", errors.New("template: renderer is nil")
	}
	if err := e.Validate(); err != nil {
		return "", err
	}

	statements := make([]string, 0, len(e.Instructions))
	for i, inst := range e.Instructions {
		tmpl, ok := r.templates[inst.Kind]
		if !ok {
			return "", fmt.Errorf("template: dialect %q has no template for %q", r.name, inst.Kind)
		}
		out, err := tmpl.Execute(pongo2.Context{
			"text":        inst.Text,
			"accumulator": r.accumulator,
			"index":       i,
		})
		if err != nil {
			return "", fmt.Errorf("template: dialect %q: execute %q at %d: %w", r.name, inst.Kind, i, err)
		}
		statements = append(statements, strings.TrimSuffix(out, "\n"))
	}
	return strings.Join(statements, r.separator), nil
}

// RegisterAll compiles every definition and registers it with registry.
func RegisterAll(registry *dialect.Registry, defs []Definition, options ...Option) error {
	if registry == nil {
		return errors.New("template: registry is required")
	}
	for _, def := range defs {
		renderer, err := New(def, options...)
		if err != nil {
			return err
		}
		if err := registry.Register(renderer); err != nil {
			return err
		}
	}
	return nil
}
