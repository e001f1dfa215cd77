package template

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-linebuilder/pkg/emission"
)

// Templates holds one template source per instruction kind.
type Templates struct {
	Init         string `json:"init" yaml:"init"`
	Blank        string `json:"blank" yaml:"blank"`
	Literal      string `json:"literal" yaml:"literal"`
	Interpolated string `json:"interpolated" yaml:"interpolated"`
	Materialize  string `json:"materialize" yaml:"materialize"`
}

// Definition describes a dialect. Templates receive `text` (line content),
// `accumulator` (builder variable name) and `index` (instruction position).
type Definition struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Accumulator string    `json:"accumulator,omitempty" yaml:"accumulator,omitempty"`
	Separator   *string   `json:"separator,omitempty" yaml:"separator,omitempty"`
	Templates   Templates `json:"templates" yaml:"templates"`
	Source      string    `json:"-" yaml:"-"`
}

func (d Definition) source(kind emission.Kind) string {
	switch kind {
	case emission.InitAccumulator:
		return d.Templates.Init
	case emission.AppendBlankLine:
		return d.Templates.Blank
	case emission.AppendLiteralLine:
		return d.Templates.Literal
	case emission.AppendInterpolatedLine:
		return d.Templates.Interpolated
	case emission.Materialize:
		return d.Templates.Materialize
	default:
		return ""
	}
}

var kinds = []emission.Kind{
	emission.InitAccumulator,
	emission.AppendBlankLine,
	emission.AppendLiteralLine,
	emission.AppendInterpolatedLine,
	emission.Materialize,
}

// Validate reports missing names or templates.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("template: definition %s has no name", d.location())
	}
	for _, kind := range kinds {
		if strings.TrimSpace(d.source(kind)) == "" {
			return fmt.Errorf("template: dialect %q (%s) is missing the %q template", d.Name, d.location(), kind)
		}
	}
	return nil
}

func (d Definition) location() string {
	if d.Source == "" {
		return "<inline>"
	}
	return d.Source
}

// LoadFS walks fsys and parses every JSON/YAML dialect definition. Definitions
// are returned sorted by name. A nil filesystem yields no definitions.
func LoadFS(fsys fs.FS) ([]Definition, error) {
	if fsys == nil {
		return nil, nil
	}

	seen := make(map[string]string)
	var defs []Definition

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("template: read %s: %w", path, err)
		}

		def, err := parseDefinition(data, path)
		if err != nil {
			return err
		}
		def.Name = strings.TrimSpace(def.Name)
		def.Source = path
		if err := def.Validate(); err != nil {
			return err
		}
		if prev, exists := seen[def.Name]; exists {
			return fmt.Errorf("template: duplicate dialect %q (files %s and %s)", def.Name, prev, path)
		}
		seen[def.Name] = path
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

func parseDefinition(data []byte, source string) (Definition, error) {
	var def Definition
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("template: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &def); err != nil {
			return Definition{}, fmt.Errorf("template: parse %s: %w", source, err)
		}
		return def, nil
	}

	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("template: parse %s: %w", source, err)
	}
	return def, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
