package probe

import (
	"bytes"
	"strings"
	"testing"
)

func makeSnapshot(oks ...bool) Snapshot {
	names := []string{"binary", "service", "artifact", "model", "cors", "tunnelbin", "tunnel"}
	snap := Snapshot{}
	for i, ok := range oks {
		snap.Results = append(snap.Results, Result{
			Name:   names[i],
			FixKey: string(rune('1' + i)),
			OK:     ok,
		})
	}
	return snap
}

func TestPrintReportAllPassing(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, makeSnapshot(true, true, true, true, true, true, true))

	out := buf.String()
	if !strings.Contains(out, "7 passed") {
		t.Errorf("missing pass count: %q", out)
	}
	if !strings.Contains(out, "All checks passed") {
		t.Errorf("missing all-clear banner: %q", out)
	}
	if strings.Contains(out, "FAILING") {
		t.Errorf("failing section rendered with no failures: %q", out)
	}
}

func TestPrintReportWithFailures(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, makeSnapshot(false, true, true, false, true, true, true))

	out := buf.String()
	if !strings.Contains(out, "5 passed") || !strings.Contains(out, "2 failed") {
		t.Errorf("wrong summary: %q", out)
	}
	if !strings.Contains(out, "FAILING") {
		t.Errorf("missing failing section: %q", out)
	}
	// Each failure carries the key that fixes it.
	if !strings.Contains(out, "press 1 in `watchpost watch`") {
		t.Errorf("missing fix hint for binary: %q", out)
	}
	if !strings.Contains(out, "press 4 in `watchpost watch`") {
		t.Errorf("missing fix hint for model: %q", out)
	}
}
