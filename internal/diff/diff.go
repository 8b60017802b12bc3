// Package diff renders line-level unified diffs using the sergi/go-diff
// library. It backs the --diff output of the check modes.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Op is the kind of a diff line
type Op int

const (
	Equal  Op = iota // Unchanged context line
	Delete           // Line only in the old text
	Insert           // Line only in the new text
)

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes plus surrounding context. Starts are 1-based; an
// empty side starts at the line before the change, as in diff -u.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Lines computes the line diff between old and new.
func Lines(old, new string) []Line {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	// line-mode diff: every line is mapped to a single rune first
	a, b, lineArray := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return out
}

// Hunks groups lines into hunks with context unchanged lines on each side.
// Changes separated by at most 2*context unchanged lines share a hunk.
func Hunks(lines []Line, context int) []Hunk {
	context = max(context, 0)

	// oldAt[i] and newAt[i] count the lines of each side before index i
	oldAt := make([]int, len(lines)+1)
	newAt := make([]int, len(lines)+1)
	for i, l := range lines {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if l.Op != Insert {
			oldAt[i+1]++
		}
		if l.Op != Delete {
			newAt[i+1]++
		}
	}

	var hunks []Hunk
	for i := 0; i < len(lines); {
		if lines[i].Op == Equal {
			i++
			continue
		}

		start := max(i-context, 0)
		end := i + 1
		for j := i + 1; j < len(lines); j++ {
			if lines[j].Op != Equal {
				end = j + 1
				continue
			}
			if j-end >= 2*context {
				break
			}
		}
		stop := min(end+context, len(lines))

		h := Hunk{
			OldStart: oldAt[start] + 1,
			OldCount: oldAt[stop] - oldAt[start],
			NewStart: newAt[start] + 1,
			NewCount: newAt[stop] - newAt[start],
			Lines:    lines[start:stop],
		}
		if h.OldCount == 0 {
			h.OldStart--
		}
		if h.NewCount == 0 {
			h.NewStart--
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}

// Unified renders a unified diff from old to new. It returns "" when the
// texts are equal.
func Unified(oldName, newName, old, new string) string {
	if old == new {
		return ""
	}
	hunks := Hunks(Lines(old, new), DefaultContext)
	if len(hunks) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)
	for _, h := range hunks {
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", span(h.OldStart, h.OldCount), span(h.NewStart, h.NewCount))
		for _, l := range h.Lines {
			switch l.Op {
			case Equal:
				b.WriteByte(' ')
			case Delete:
				b.WriteByte('-')
			case Insert:
				b.WriteByte('+')
			}
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func span(start, count int) string {
	if count == 1 {
		return fmt.Sprint(start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
