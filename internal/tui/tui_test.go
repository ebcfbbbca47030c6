package tui

import (
	"testing"

	"github.com/ale-01cu/oxisearch/internal/record"
)

func TestClampBoundsValue(t *testing.T) {
	if got := clamp(5, 0, 10); got != 5 {
		t.Fatalf("clamp(5,0,10) = %d, want 5", got)
	}
	if got := clamp(-5, 0, 10); got != 0 {
		t.Fatalf("clamp(-5,0,10) = %d, want 0", got)
	}
	if got := clamp(50, 0, 10); got != 10 {
		t.Fatalf("clamp(50,0,10) = %d, want 10", got)
	}
}

func TestPadBetweenFillsWidth(t *testing.T) {
	got := padBetween("left", "right", 20)
	if len(got) != 20 {
		t.Fatalf("padBetween produced length %d, want 20: %q", len(got), got)
	}
}

func TestPadBetweenNeverGoesNegative(t *testing.T) {
	got := padBetween("a very long left side", "and a long right side too", 10)
	if got == "" {
		t.Fatal("padBetween returned empty string")
	}
}

func TestFileIconFallsBackForUnknownExtension(t *testing.T) {
	r := record.SearchResult{Path: "/tmp/archive.zzz", Name: "archive.zzz"}
	if icon := fileIcon(r); icon != " " {
		t.Fatalf("fileIcon fallback = %q, want single space", icon)
	}
}

func TestFileIconDirOverridesExtension(t *testing.T) {
	r := record.SearchResult{Path: "/tmp/project.go", Name: "project.go", IsDir: true}
	if icon := fileIcon(r); icon != " " {
		t.Fatalf("fileIcon for dir = %q, want directory icon", icon)
	}
}
