package rewrite

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRule is wrapped by Compile for unusable rules.
var ErrInvalidRule = errors.New("rewrite: invalid rule")

// Rule maps a regular expression to a replacement template. Replacement uses
// regexp.Expand syntax (${1}, ${name}) unless Literal is set.
type Rule struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	DotAll      bool   `json:"dotAll,omitempty" yaml:"dotAll,omitempty"`
	Literal     bool   `json:"literal,omitempty" yaml:"literal,omitempty"`
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// Ruleset is an ordered, compiled list of rules. It is immutable and safe for
// concurrent use.
type Ruleset struct {
	rules []compiledRule
}

// Result describes one Apply call. Counts holds the number of matches per rule
// name, including rules that did not match.
type Result struct {
	Content string
	Changed bool
	Counts  map[string]int
}

// Total returns the number of replacements across all rules.
func (r Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Compile validates and compiles rules in order. Names must be unique.
func Compile(rules ...Rule) (*Ruleset, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: at least one rule is required", ErrInvalidRule)
	}

	seen := make(map[string]struct{}, len(rules))
	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		rule.Name = strings.TrimSpace(rule.Name)
		if rule.Name == "" {
			return nil, fmt.Errorf("%w: rule %d has no name", ErrInvalidRule, i)
		}
		if _, exists := seen[rule.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate rule %q", ErrInvalidRule, rule.Name)
		}
		seen[rule.Name] = struct{}{}

		if rule.Pattern == "" {
			return nil, fmt.Errorf("%w: rule %q has no pattern", ErrInvalidRule, rule.Name)
		}
		pattern := rule.Pattern
		if rule.DotAll {
			pattern = "(?s)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidRule, rule.Name, err)
		}
		compiled = append(compiled, compiledRule{Rule: rule, re: re})
	}
	return &Ruleset{rules: compiled}, nil
}

// MustCompile panics when Compile fails. Intended for built-in rule sets.
func MustCompile(rules ...Rule) *Ruleset {
	rs, err := Compile(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Names returns rule names in application order.
func (rs *Ruleset) Names() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, 0, len(rs.rules))
	for _, rule := range rs.rules {
		names = append(names, rule.Name)
	}
	return names
}

// Apply runs every rule in order; each rule sees the output of the previous
// one.
func (rs *Ruleset) Apply(content string) Result {
	result := Result{Content: content, Counts: make(map[string]int)}
	if rs == nil {
		return result
	}

	for _, rule := range rs.rules {
		matches := rule.re.FindAllStringIndex(result.Content, -1)
		result.Counts[rule.Name] = len(matches)
		if len(matches) == 0 {
			continue
		}
		if rule.Literal {
			result.Content = rule.re.ReplaceAllLiteralString(result.Content, rule.Replacement)
		} else {
			result.Content = rule.re.ReplaceAllString(result.Content, rule.Replacement)
		}
	}
	result.Changed = result.Content != content
	return result
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseRules decodes a YAML (or JSON) rules document.
func ParseRules(data []byte, source string) ([]Rule, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("rewrite: rules file %s is empty", source)
	}
	var doc rulesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rewrite: parse %s: %w", source, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rewrite: rules file %s defines no rules", source)
	}
	return doc.Rules, nil
}

// LoadRules reads and compiles the rules file at path within fsys.
func LoadRules(fsys fs.FS, path string) (*Ruleset, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("rewrite: read %s: %w", path, err)
	}
	rules, err := ParseRules(data, path)
	if err != nil {
		return nil, err
	}
	return Compile(rules...)
}
