package rewrite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-linebuilder/pkg/rewrite"
	"github.com/goliatone/go-linebuilder/pkg/testsupport"
)

func TestScannerEvidenceRules(t *testing.T) {
	rules, ok := rewrite.Builtin(rewrite.ScannerEvidenceName)
	if !ok {
		t.Fatalf("builtin %q not found", rewrite.ScannerEvidenceName)
	}

	input := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "ContingencyPlanningScanner.cs.txt"))
	got := rules.Apply(input)

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "ContingencyPlanningScanner.cs.golden"))
	if diff := cmp.Diff(want, got.Content); diff != "" {
		t.Fatalf("rewritten content mismatch (-want +got):\n%s", diff)
	}
	if !got.Changed {
		t.Fatalf("expected Changed to be true")
	}
	wantCounts := map[string]int{"evidence-json": 1, "control-title": 1}
	if diff := cmp.Diff(wantCounts, got.Counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_NoMatchesLeavesContent(t *testing.T) {
	rules := rewrite.MustCompile(rewrite.ScannerEvidenceRules()...)

	got := rules.Apply("var x = 1;")
	if got.Changed || got.Content != "var x = 1;" || got.Total() != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestLoadRules(t *testing.T) {
	rules, err := rewrite.LoadRules(os.DirFS("testdata"), "rules.yaml")
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if diff := cmp.Diff([]string{"logger-field", "todo-marker"}, rules.Names()); diff != "" {
		t.Fatalf("rule names mismatch (-want +got):\n%s", diff)
	}

	got := rules.Apply("_log.Info(\"x\"); // TODO: later\n_log.Warn(y);")
	want := "_logger.Info(\"x\"); // $TODO later\n_logger.Warn(y);"
	if diff := cmp.Diff(want, got.Content); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
	if got.Counts["logger-field"] != 2 || got.Counts["todo-marker"] != 1 {
		t.Fatalf("unexpected counts: %v", got.Counts)
	}
}

func TestCompile_Errors(t *testing.T) {
	cases := map[string][]rewrite.Rule{
		"empty":      nil,
		"no name":    {{Pattern: "a"}},
		"no regexp":  {{Name: "a"}},
		"bad regexp": {{Name: "a", Pattern: "("}},
		"duplicate":  {{Name: "a", Pattern: "x"}, {Name: " a ", Pattern: "y"}},
	}
	for name, rules := range cases {
		if _, err := rewrite.Compile(rules...); !errors.Is(err, rewrite.ErrInvalidRule) {
			t.Errorf("%s: expected ErrInvalidRule, got %v", name, err)
		}
	}
}

func TestParseRules_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.yaml":   {Data: []byte("\n")},
		"norules.yaml": {Data: []byte("rules: []\n")},
		"broken.yaml":  {Data: []byte("rules: [\n")},
	}
	for _, name := range []string{"empty.yaml", "norules.yaml", "broken.yaml", "missing.yaml"} {
		if _, err := rewrite.LoadRules(fsys, name); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

type memFS struct {
	files    map[string]string
	failRead map[string]bool
	writes   []string
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	if m.failRead[path] {
		return nil, errors.New("permission denied")
	}
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (m *memFS) WriteFile(path string, data []byte) error {
	m.files[path] = string(data)
	m.writes = append(m.writes, path)
	return nil
}

func newMemFS() *memFS {
	return &memFS{
		files: map[string]string{
			"a.cs": `Title = $"{control.Title}: {control.Description}";`,
			"b.cs": "untouched",
			"c.cs": `x = $"{control.Title}: {control.Description}";`,
		},
		failRead: map[string]bool{"locked.cs": true},
	}
}

func TestPatcher_ContinuesAfterFailures(t *testing.T) {
	fsys := newMemFS()
	patcher := rewrite.NewPatcher(rewrite.MustCompile(rewrite.ScannerEvidenceRules()...), rewrite.WithFileSystem(fsys))

	reports := patcher.Patch(testsupport.Context(), "a.cs", "missing.cs", "locked.cs", "b.cs", "c.cs")

	if len(reports) != 5 {
		t.Fatalf("reports = %d, want 5", len(reports))
	}
	if got := rewrite.Failed(reports); got != 2 {
		t.Fatalf("failed = %d, want 2", got)
	}
	if !errors.Is(reports[1].Err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", reports[1].Err)
	}
	if diff := cmp.Diff([]string{"a.cs", "c.cs"}, fsys.writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
	if reports[3].Changed || reports[3].Written {
		t.Fatalf("unchanged file should not be written: %+v", reports[3])
	}
	want := `Title = control.Title ?? "Manual review required for this control";`
	if fsys.files["a.cs"] != want {
		t.Fatalf("a.cs = %q", fsys.files["a.cs"])
	}
}

func TestPatcher_DryRunAndConfirm(t *testing.T) {
	rules := rewrite.MustCompile(rewrite.ScannerEvidenceRules()...)

	fsys := newMemFS()
	reports := rewrite.NewPatcher(rules, rewrite.WithFileSystem(fsys), rewrite.WithDryRun(true)).
		Patch(testsupport.Context(), "a.cs")
	if !reports[0].Changed || reports[0].Written || len(fsys.writes) != 0 {
		t.Fatalf("dry run wrote files: %+v", reports[0])
	}

	var asked []string
	confirm := func(_ context.Context, path string, result rewrite.Result) (bool, error) {
		asked = append(asked, path)
		return path == "c.cs", nil
	}
	reports = rewrite.NewPatcher(rules, rewrite.WithFileSystem(fsys), rewrite.WithConfirm(confirm)).
		Patch(testsupport.Context(), "a.cs", "b.cs", "c.cs")

	if diff := cmp.Diff([]string{"a.cs", "c.cs"}, asked); diff != "" {
		t.Fatalf("confirm calls mismatch (-want +got):\n%s", diff)
	}
	if !reports[0].Skipped || reports[0].Written {
		t.Fatalf("a.cs should be skipped: %+v", reports[0])
	}
	if !reports[2].Written {
		t.Fatalf("c.cs should be written: %+v", reports[2])
	}
}

func TestPatcher_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := newMemFS()
	reports := rewrite.NewPatcher(rewrite.MustCompile(rewrite.ScannerEvidenceRules()...), rewrite.WithFileSystem(fsys)).
		Patch(ctx, "a.cs", "c.cs")

	for _, report := range reports {
		if !errors.Is(report.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled for %s, got %v", report.Path, report.Err)
		}
	}
	if len(fsys.writes) != 0 {
		t.Fatalf("no files should be written after cancellation")
	}
}

func TestPatcher_WritesToDiskPreservingMode(t *testing.T) {
	path := testsupport.WriteTempFile(t, "Scanner.cs", `Title = $"{control.Title}: {control.Description}";`)
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	reports := rewrite.NewPatcher(rewrite.MustCompile(rewrite.ScannerEvidenceRules()...)).
		Patch(testsupport.Context(), path)
	if reports[0].Err != nil || !reports[0].Written {
		t.Fatalf("unexpected report: %+v", reports[0])
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}
