// Package snapshot_test provides golden snapshot tests for the textual form.
//
// For each input document in testdata/in/, the test parses, verifies and
// reprints it, comparing the canonical output to golden files stored in
// testdata/golden/text/. A second pass runs the standard lowering pipeline
// (stream-to-loops, then constant folding) and compares the result to
// testdata/golden/lowered/.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/goir/goir"
	"github.com/goir/goir/dialects/arith"
	"github.com/goir/goir/ir"
	"github.com/goir/goir/passes/streamlower"
	"github.com/goir/goir/rewrite"
)

// ---------------------------------------------------------------------------
// Test Runner
// ---------------------------------------------------------------------------

// inputFile represents an input document loaded from disk.
type inputFile struct {
	name   string // base name without extension (e.g., "clock")
	source string
}

// TestSnapshots is the main golden snapshot test. It loads all inputs,
// round-trips each through parse/verify/print, runs the lowering pipeline
// and compares with golden files.
func TestSnapshots(t *testing.T) {
	inputs := loadInputs(t, "testdata/in")
	if len(inputs) == 0 {
		t.Fatal("no input documents found in testdata/in/")
	}

	for i := range inputs {
		input := &inputs[i]
		t.Run(input.name, func(t *testing.T) {
			t.Run("text", func(t *testing.T) {
				reg := testRegistry(t)
				text := roundTrip(t, input.name, input.source, reg)
				compareGolden(t, filepath.Join("testdata", "golden", "text", input.name+".ir"), text)

				// Canonical text is a fixpoint: reprinting it must
				// reproduce it byte for byte.
				again := roundTrip(t, input.name, text, reg)
				if again != text {
					t.Errorf("[%s] canonical text is not a printing fixpoint:\nfirst:\n%s\nsecond:\n%s", input.name, text, again)
				}
			})

			t.Run("lowered", func(t *testing.T) {
				reg := testRegistry(t)
				lowered := lower(t, input.name, input.source, reg)
				compareGolden(t, filepath.Join("testdata", "golden", "lowered", input.name+".ir"), lowered)
			})
		})
	}
}

// ---------------------------------------------------------------------------
// Input Loading
// ---------------------------------------------------------------------------

// loadInputs reads all .ir files from the given directory.
func loadInputs(t *testing.T, dir string) []inputFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var inputs []inputFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ir") {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read input %q: %v", entry.Name(), readErr)
		}
		name := strings.TrimSuffix(entry.Name(), ".ir")
		inputs = append(inputs, inputFile{name: name, source: string(data)})
	}

	// Sort for deterministic test order
	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].name < inputs[j].name
	})

	return inputs
}

// ---------------------------------------------------------------------------
// Pipeline Helpers
// ---------------------------------------------------------------------------

// testRegistry returns the standard dialects plus a small test dialect
// supplying value sources and control-flow operations the inputs need.
func testRegistry(t *testing.T) *ir.Registry {
	t.Helper()

	reg := goir.StandardRegistry()
	err := reg.Register(&ir.Dialect{
		Name: "test",
		Ops: []ir.OpDef{
			{Name: "test.source", NumResults: 1},
			{Name: "test.func", NumResults: 1, Regions: []ir.RegionSig{{}}},
			{Name: "test.br", Traits: []ir.Trait{ir.TraitTerminator}},
			{Name: "test.return", Traits: []ir.Trait{ir.TraitTerminator}},
		},
	})
	if err != nil {
		t.Fatalf("register test dialect: %v", err)
	}
	return reg
}

// roundTrip parses, verifies and reprints one document.
func roundTrip(t *testing.T, name, source string, reg *ir.Registry) string {
	t.Helper()

	module, err := goir.Parse(source, reg)
	if err != nil {
		t.Fatalf("[%s] parse failed: %v", name, err)
	}
	if err := goir.Verify(module, reg); err != nil {
		t.Fatalf("[%s] verify failed: %v", name, err)
	}
	return goir.Print(module, reg)
}

// lower parses the document, runs the standard lowering pipeline and prints
// the result.
func lower(t *testing.T, name, source string, reg *ir.Registry) string {
	t.Helper()

	module, err := goir.Parse(source, reg)
	if err != nil {
		t.Fatalf("[%s] parse failed: %v", name, err)
	}
	if err := goir.Verify(module, reg); err != nil {
		t.Fatalf("[%s] verify failed: %v", name, err)
	}

	pipeline := &rewrite.Pipeline{
		Passes: []*rewrite.Pass{
			streamlower.Pass(),
			{Name: "fold-constants", Patterns: arith.FoldPatterns()},
		},
	}
	opts := rewrite.DefaultOptions()
	opts.DebugVerify = true
	opts.Registry = reg
	if err := pipeline.Run(module, opts); err != nil {
		t.Fatalf("[%s] lowering failed: %v", name, err)
	}

	if err := goir.Verify(module, reg); err != nil {
		t.Fatalf("[%s] verify after lowering failed: %v", name, err)
	}
	return goir.Print(module, reg)
}

// ---------------------------------------------------------------------------
// Golden File Comparison
// ---------------------------------------------------------------------------

// compareGolden compares actual output with the golden file at path.
// If UPDATE_GOLDEN is set, writes actual output as the new golden file.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			t.Fatalf("create golden dir: %v", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(actual), 0o644); wErr != nil {
			t.Fatalf("write golden file: %v", wErr)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nActual output:\n%s", path, actual)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Normalize line endings for cross-platform comparison.
	// Git may convert \n to \r\n on Windows checkout.
	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	actualStr := strings.ReplaceAll(actual, "\r\n", "\n")

	if expectedStr != actualStr {
		t.Errorf("output differs from golden %s:\n%s", path, diffStrings(expectedStr, actualStr))
	}
}

// diffStrings produces a simple line-by-line diff showing the first
// difference and surrounding context.
func diffStrings(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	maxLines := len(expectedLines)
	if len(actualLines) > maxLines {
		maxLines = len(actualLines)
	}

	firstDiff := -1
	for i := 0; i < maxLines; i++ {
		var eLine, aLine string
		if i < len(expectedLines) {
			eLine = expectedLines[i]
		}
		if i < len(actualLines) {
			aLine = actualLines[i]
		}
		if eLine != aLine {
			firstDiff = i
			break
		}
	}
	if firstDiff < 0 {
		return "(no difference found)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "first difference at line %d:\n", firstDiff+1)
	fmt.Fprintf(&sb, "  expected lines: %d\n", len(expectedLines))
	fmt.Fprintf(&sb, "  actual lines:   %d\n\n", len(actualLines))

	const contextLines = 3
	start := firstDiff - contextLines
	if start < 0 {
		start = 0
	}
	end := firstDiff + contextLines + 1
	if end > maxLines {
		end = maxLines
	}
	for i := start; i < end; i++ {
		if i < len(expectedLines) {
			fmt.Fprintf(&sb, "- %s\n", expectedLines[i])
		}
		if i < len(actualLines) {
			fmt.Fprintf(&sb, "+ %s\n", actualLines[i])
		}
	}
	return sb.String()
}
