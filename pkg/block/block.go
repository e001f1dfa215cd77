package block

import "strings"

// Line keeps the raw text of a template line next to its trimmed form. The raw
// text preserves indentation; decisions are made on Trimmed.
type Line struct {
	Raw     string
	Trimmed string
}

// Block is the ordered sequence of lines of a template body.
type Block struct {
	Lines []Line
}

// Len reports the number of lines in the block.
func (b Block) Len() int {
	return len(b.Lines)
}

// Split trims surrounding whitespace from raw and splits the remainder on line
// feeds. Empty or whitespace-only input produces an empty block.
func Split(raw string) Block {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Block{}
	}

	parts := strings.Split(trimmed, "\n")
	lines := make([]Line, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, Line{
			Raw:     part,
			Trimmed: strings.TrimSpace(part),
		})
	}
	return Block{Lines: lines}
}
