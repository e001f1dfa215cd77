// Package block splits the body of a multi-line string literal into lines and
// classifies each one as a delimiter, blank, literal, or interpolated line.
// Classification works on the trimmed line only and never looks at neighbouring
// lines, so a delimiter marker is dropped wherever it appears in the block.
package block
