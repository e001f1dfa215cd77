package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-linebuilder/pkg/prompt"
	"github.com/goliatone/go-linebuilder/pkg/testsupport"
)

type fakeDriver struct {
	text     string
	selected int
	confirm  bool
}

func (f *fakeDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return f.confirm, nil
}

func (f *fakeDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	return f.selected, nil
}

func (f *fakeDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	return f.text, nil
}

func run(t *testing.T, driver prompt.Driver, stdin string, env map[string]string, args ...string) (string, string, error) {
	t.Helper()

	a := &app{
		driver: driver,
		lookup: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
	}
	cmd := newRootCommand(a)

	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvert_FromStdin(t *testing.T) {
	stdin := testsupport.Lines(`return $"""`, "    # Title", "", "    **Property:** {value}", `    """;`)

	stdout, _, err := run(t, &fakeDriver{}, stdin, nil, "convert")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := testsupport.Lines(
		"var sb = new StringBuilder();",
		`sb.AppendLine("# Title");`,
		"sb.AppendLine();",
		`sb.AppendLine($"**Property:** {value}");`,
		"return sb.ToString();",
	) + "\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_FileToOutputWithDialect(t *testing.T) {
	input := testsupport.WriteTempFile(t, "literal.txt", "Hello {name}")
	output := filepath.Join(t.TempDir(), "out", "generated.vb")

	_, _, err := run(t, &fakeDriver{}, "", nil, "convert", input, "--dialect", "vbnet", "--accumulator", "text", "-o", output)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Dim text As New StringBuilder()\ntext.AppendLine($\"Hello {name}\")\nReturn text.ToString()\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_InteractiveUsesPrompts(t *testing.T) {
	driver := &fakeDriver{text: "Hi", selected: 1}

	stdout, _, err := run(t, driver, "", nil, "convert", "--interactive")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := "using var writer = new StringWriter();\nwriter.WriteLine(\"Hi\");\nreturn writer.ToString();\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_EnvironmentDefaults(t *testing.T) {
	env := map[string]string{"LINEBUILDER_ACCUMULATOR": "acc"}

	stdout, _, err := run(t, &fakeDriver{}, "", env, "convert")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if want := "var acc = new StringBuilder();\nreturn acc.ToString();\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestConvert_UnknownDialect(t *testing.T) {
	_, _, err := run(t, &fakeDriver{}, "x", nil, "convert", "--dialect", "cobol")
	if err == nil || !strings.Contains(err.Error(), "available: csharp, csharp-textwriter, vbnet") {
		t.Fatalf("expected unknown dialect error, got %v", err)
	}
}

func TestDialects(t *testing.T) {
	stdout, _, err := run(t, &fakeDriver{}, "", nil, "dialects")
	if err != nil {
		t.Fatalf("dialects: %v", err)
	}
	if want := "csharp\ncsharp-textwriter\nvbnet\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestRewrite_ReportsPerFile(t *testing.T) {
	dir := t.TempDir()
	fixed := filepath.Join(dir, "IncidentResponseScanner.cs")
	clean := filepath.Join(dir, "RiskAssessmentScanner.cs")
	missing := filepath.Join(dir, "SecurityAssessmentScanner.cs")

	if err := os.WriteFile(fixed, []byte(`Title = $"{control.Title}: {control.Description}";`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(clean, []byte("// nothing to do"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	stdout, stderr, err := run(t, &fakeDriver{}, "", nil, "rewrite", fixed, missing, clean)
	if err == nil || err.Error() != "1 of 3 files failed" {
		t.Fatalf("expected one failure, got %v", err)
	}

	wantOut := "Fixed " + fixed + "\nUnchanged " + clean + "\n"
	if diff := cmp.Diff(wantOut, stdout); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "Error fixing "+missing+": ") {
		t.Fatalf("stderr missing failure line: %q", stderr)
	}

	got, err := os.ReadFile(fixed)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := `Title = control.Title ?? "Manual review required for this control";`; string(got) != want {
		t.Fatalf("content = %q", got)
	}
}

func TestRewrite_DryRunWithRulesFile(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.yaml")
	target := filepath.Join(dir, "Program.cs")
	if err := os.WriteFile(rules, []byte("rules:\n  - name: rename\n    pattern: 'Foo'\n    replacement: 'Bar'\n"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if err := os.WriteFile(target, []byte("Foo();"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}

	stdout, _, err := run(t, &fakeDriver{}, "", nil, "rewrite", "--rules", rules, "--dry-run", target)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if want := "Would fix " + target + "\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
	if got, _ := os.ReadFile(target); string(got) != "Foo();" {
		t.Fatalf("dry run modified file: %q", got)
	}
}

func TestRewrite_ConfirmDeclined(t *testing.T) {
	target := testsupport.WriteTempFile(t, "Scanner.cs", `$"{control.Title}: {control.Description}"`)

	stdout, _, err := run(t, &fakeDriver{confirm: false}, "", nil, "rewrite", "--confirm", target)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if want := "Skipped " + target + "\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestRewrite_UnknownRules(t *testing.T) {
	_, _, err := run(t, &fakeDriver{}, "", nil, "rewrite", "--rules", "no-such-rules", "x.cs")
	if err == nil {
		t.Fatalf("expected rules resolution error")
	}
}
