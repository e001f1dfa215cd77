package block

import "strings"

// Category describes how a trimmed template line is emitted.
type Category int

const (
	// CategoryDelimiter marks opening/closing literal markers that are dropped.
	CategoryDelimiter Category = iota
	// CategoryBlank marks lines with no content after trimming.
	CategoryBlank
	// CategoryLiteral marks lines appended as plain strings.
	CategoryLiteral
	// CategoryInterpolated marks lines appended with substitutions left live.
	CategoryInterpolated
)

// String returns a readable category name.
func (c Category) String() string {
	switch c {
	case CategoryDelimiter:
		return "delimiter"
	case CategoryBlank:
		return "blank"
	case CategoryLiteral:
		return "literal"
	case CategoryInterpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

// DelimiterSet holds the exact marker lines that bound a template block.
type DelimiterSet struct {
	markers map[string]struct{}
}

// DefaultDelimiters returns the raw interpolated literal markers: the opening
// marker with and without a return statement and the closing marker with and
// without a statement terminator.
func DefaultDelimiters() DelimiterSet {
	return NewDelimiterSet(`return $"""`, `$"""`, `""";`, `"""`)
}

// NewDelimiterSet builds a set from the supplied markers. Markers are trimmed;
// empty markers are ignored so a blank line can never be mistaken for one.
func NewDelimiterSet(markers ...string) DelimiterSet {
	set := DelimiterSet{markers: make(map[string]struct{}, len(markers))}
	for _, marker := range markers {
		trimmed := strings.TrimSpace(marker)
		if trimmed == "" {
			continue
		}
		set.markers[trimmed] = struct{}{}
	}
	return set
}

// IsDelimiter reports whether trimmed exactly equals one of the markers.
func (d DelimiterSet) IsDelimiter(trimmed string) bool {
	_, ok := d.markers[trimmed]
	return ok
}

// Markers returns the configured markers in no particular order.
func (d DelimiterSet) Markers() []string {
	out := make([]string, 0, len(d.markers))
	for marker := range d.markers {
		out = append(out, marker)
	}
	return out
}

// Classify assigns a category to a trimmed line. A line is interpolated when it
// contains at least one '{' and at least one '}' anywhere; braces are not
// balanced or matched.
func Classify(trimmed string, delimiters DelimiterSet) Category {
	switch {
	case delimiters.IsDelimiter(trimmed):
		return CategoryDelimiter
	case trimmed == "":
		return CategoryBlank
	case strings.Contains(trimmed, "{") && strings.Contains(trimmed, "}"):
		return CategoryInterpolated
	default:
		return CategoryLiteral
	}
}
