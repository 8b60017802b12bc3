package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines_SimpleChange(t *testing.T) {
	got := Lines("x\ny\n", "x\nz\n")
	want := []Line{
		{Op: Equal, Text: "x"},
		{Op: Delete, Text: "y"},
		{Op: Insert, Text: "z"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestUnified_Equal(t *testing.T) {
	if got := Unified("a", "b", "same\n", "same\n"); got != "" {
		t.Errorf("expected empty diff, got %q", got)
	}
}

func TestUnified_SimpleChange(t *testing.T) {
	got := Unified("a.json", "a.json (formatted)", "x\ny\n", "x\nz\n")
	want := "--- a.json\n+++ a.json (formatted)\n@@ -1,2 +1,2 @@\n x\n-y\n+z\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unified mismatch (-want +got):\n%s", diff)
	}
}

func TestUnified_Addition(t *testing.T) {
	got := Unified("old", "new", "line1\nline2\nline3\n", "line1\nline2\nline2.5\nline3\n")
	want := "--- old\n+++ new\n@@ -1,3 +1,4 @@\n line1\n line2\n+line2.5\n line3\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unified mismatch (-want +got):\n%s", diff)
	}
}

func TestUnified_FromEmpty(t *testing.T) {
	got := Unified("old", "new", "", "a\n")
	want := "--- old\n+++ new\n@@ -0,0 +1 @@\n+a\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unified mismatch (-want +got):\n%s", diff)
	}
}

func TestHunks_SplitsDistantChanges(t *testing.T) {
	var old, cur strings.Builder
	for i := 0; i < 20; i++ {
		line := string(rune('a' + i))
		old.WriteString(line + "\n")
		if i == 1 || i == 18 {
			line = strings.ToUpper(line)
		}
		cur.WriteString(line + "\n")
	}

	hunks := Hunks(Lines(old.String(), cur.String()), DefaultContext)
	if len(hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(hunks))
	}
	if hunks[0].OldStart != 1 || hunks[0].OldCount != 5 {
		t.Errorf("first hunk = -%d,%d, want -1,5", hunks[0].OldStart, hunks[0].OldCount)
	}
	if hunks[1].OldStart != 16 || hunks[1].OldCount != 5 {
		t.Errorf("second hunk = -%d,%d, want -16,5", hunks[1].OldStart, hunks[1].OldCount)
	}
}

func TestHunks_MergesNearbyChanges(t *testing.T) {
	old := "a\nb\nc\nd\ne\nf\ng\nh\n"
	cur := "A\nb\nc\nd\ne\nf\ng\nH\n"

	hunks := Hunks(Lines(old, cur), DefaultContext)
	if len(hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(hunks))
	}
	if hunks[0].OldCount != 8 || hunks[0].NewCount != 8 {
		t.Errorf("hunk counts = %d/%d, want 8/8", hunks[0].OldCount, hunks[0].NewCount)
	}
}
