// Package rewrite applies ordered regular-expression rules to source text.
// Rules are compiled once into a Ruleset; a Patcher reads each listed file,
// applies the set and writes the result back to the same path.
package rewrite
