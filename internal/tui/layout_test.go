package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePaneForcesExactDimensions(t *testing.T) {
	out := normalizePane("short\na line that is clearly wider than ten columns", 10, 4)

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d: width %d, want 10", i, w)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected overflow line to be truncated, got %q", lines[1])
	}
}

func TestNormalizePaneHandlesHugeLine(t *testing.T) {
	huge := strings.Repeat("x", 20000)
	out := normalizePane(huge, 12, 1)
	if w := xansi.StringWidth(out); w != 12 {
		t.Fatalf("width %d, want 12", w)
	}
}
