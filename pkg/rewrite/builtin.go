package rewrite

// ScannerEvidenceName names the built-in compliance scanner rule set.
const ScannerEvidenceName = "scanner-evidence"

// ScannerEvidenceRules serialises inline Evidence dictionaries and replaces the
// interpolated "Title: Description" finding text with a Title fallback.
func ScannerEvidenceRules() []Rule {
	return []Rule{
		{
			Name:        "evidence-json",
			Description: "Wrap Evidence dictionaries in JsonSerializer.Serialize",
			Pattern:     `Evidence = new Dictionary<string, object>\s*\{([^}]+)\}`,
			Replacement: `Evidence = JsonSerializer.Serialize(new Dictionary<string, object> {${1}})`,
			DotAll:      true,
		},
		{
			Name:        "control-title",
			Description: "Use control.Title with a manual review fallback",
			Pattern:     `\$"\{control\.Title\}: \{control\.Description\}"`,
			Replacement: `control.Title ?? "Manual review required for this control"`,
			Literal:     true,
		},
	}
}

// Builtin returns the compiled rule set registered under name.
func Builtin(name string) (*Ruleset, bool) {
	switch name {
	case ScannerEvidenceName:
		return MustCompile(ScannerEvidenceRules()...), true
	default:
		return nil, false
	}
}
