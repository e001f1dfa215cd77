package dialect

import (
	"strings"

	"github.com/goliatone/go-linebuilder/pkg/emission"
)

// CSharpName is the registry name of the StringBuilder dialect.
const CSharpName = "csharp"

const defaultAccumulator = "sb"

// CSharpOption configures the CSharp renderer.
type CSharpOption func(*CSharp)

// WithAccumulator overrides the builder variable name. Blank names are ignored.
func WithAccumulator(name string) CSharpOption {
	return func(c *CSharp) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.accumulator = trimmed
		}
	}
}

// CSharp renders emissions as System.Text.StringBuilder statements. Line text is
// quoted as is; embedded quotes are not escaped.
type CSharp struct {
	accumulator string
}

var _ Renderer = (*CSharp)(nil)

// NewCSharp constructs the StringBuilder renderer.
func NewCSharp(options ...CSharpOption) *CSharp {
	c := &CSharp{accumulator: defaultAccumulator}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Name reports the dialect identifier.
func (c *CSharp) Name() string {
	return CSharpName
}

// Render satisfies Renderer. It never fails.
func (c *CSharp) Render(e emission.Emission) (string, error) {
	return c.Format(e), nil
}

// Format renders the emission, one statement per line.
func (c *CSharp) Format(e emission.Emission) string {
	statements := make([]string, 0, len(e.Instructions))
	for _, inst := range e.Instructions {
		statements = append(statements, c.statement(inst))
	}
	return strings.Join(statements, "\n")
}

func (c *CSharp) statement(inst emission.Instruction) string {
	sb := c.accumulator
	switch inst.Kind {
	case emission.InitAccumulator:
		return "var " + sb + " = new StringBuilder();"
	case emission.AppendBlankLine:
		return sb + ".AppendLine();"
	case emission.AppendLiteralLine:
		return sb + `.AppendLine("` + inst.Text + `");`
	case emission.AppendInterpolatedLine:
		return sb + `.AppendLine($"` + inst.Text + `");`
	case emission.Materialize:
		return "return " + sb + ".ToString();"
	default:
		return ""
	}
}
