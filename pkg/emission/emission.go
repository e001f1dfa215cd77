// Package emission models the statement sequence produced from a template
// block: one accumulator initialisation, one append per content line, and one
// final materialisation.
package emission

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-linebuilder/pkg/block"
)

// ErrInvalidEmission is wrapped by Validate when the sequence is malformed.
var ErrInvalidEmission = errors.New("emission: invalid instruction sequence")

// Kind identifies an instruction.
type Kind string

const (
	InitAccumulator        Kind = "init"
	AppendBlankLine        Kind = "blank"
	AppendLiteralLine      Kind = "literal"
	AppendInterpolatedLine Kind = "interpolated"
	Materialize            Kind = "materialize"
)

// IsAppend reports whether the kind appends a line to the accumulator.
func (k Kind) IsAppend() bool {
	switch k {
	case AppendBlankLine, AppendLiteralLine, AppendInterpolatedLine:
		return true
	default:
		return false
	}
}

// Instruction is a single emitted statement. Text is only set for literal and
// interpolated appends.
type Instruction struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
}

// Emission is the ordered instruction sequence for one template block.
type Emission struct {
	Instructions []Instruction `json:"instructions"`
}

// Build walks the block in order and produces its emission. Delimiter lines
// produce nothing; every other line produces exactly one append.
func Build(b block.Block, delimiters block.DelimiterSet) Emission {
	instructions := make([]Instruction, 0, b.Len()+2)
	instructions = append(instructions, Instruction{Kind: InitAccumulator})

	for _, line := range b.Lines {
		switch block.Classify(line.Trimmed, delimiters) {
		case block.CategoryDelimiter:
			continue
		case block.CategoryBlank:
			instructions = append(instructions, Instruction{Kind: AppendBlankLine})
		case block.CategoryInterpolated:
			instructions = append(instructions, Instruction{Kind: AppendInterpolatedLine, Text: line.Trimmed})
		default:
			instructions = append(instructions, Instruction{Kind: AppendLiteralLine, Text: line.Trimmed})
		}
	}

	instructions = append(instructions, Instruction{Kind: Materialize})
	return Emission{Instructions: instructions}
}

// Appends counts the append instructions in the sequence.
func (e Emission) Appends() int {
	count := 0
	for _, inst := range e.Instructions {
		if inst.Kind.IsAppend() {
			count++
		}
	}
	return count
}

// Validate checks that the sequence starts with a single initialisation, ends
// with a single materialisation and holds only appends in between.
func (e Emission) Validate() error {
	n := len(e.Instructions)
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 instructions, got %d", ErrInvalidEmission, n)
	}
	if e.Instructions[0].Kind != InitAccumulator {
		return fmt.Errorf("%w: first instruction is %q", ErrInvalidEmission, e.Instructions[0].Kind)
	}
	if e.Instructions[n-1].Kind != Materialize {
		return fmt.Errorf("%w: last instruction is %q", ErrInvalidEmission, e.Instructions[n-1].Kind)
	}
	for i, inst := range e.Instructions[1 : n-1] {
		if !inst.Kind.IsAppend() {
			return fmt.Errorf("%w: instruction %d is %q", ErrInvalidEmission, i+1, inst.Kind)
		}
	}
	return nil
}
