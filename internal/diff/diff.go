// Package diff renders the before and after text of an editing session as
// unified hunks for preview output, using the sergi/go-diff engine with a
// line-level reduction.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineKind classifies one diff line.
type LineKind int

const (
	Context LineKind = iota
	Added
	Removed
)

// Line is a single line of a hunk. OldNum and NewNum are 1-based; a line
// absent from one side carries 0 there.
type Line struct {
	Kind   LineKind
	OldNum int
	NewNum int
	Text   string
}

// Hunk is one contiguous run of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff is the rendered difference for one file.
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// Changed reports whether the diff contains any hunk.
func (d *FileDiff) Changed() bool { return len(d.Hunks) > 0 }

// Compute diffs old against new line by line and groups the changes into
// hunks carrying context lines of surrounding text.
func Compute(path, old, new string, context int) *FileDiff {
	if context < 0 {
		context = 0
	}
	return &FileDiff{Path: path, Hunks: group(lineOps(old, new), context)}
}

// Unified renders a git-style unified diff, or "" when the texts match.
func Unified(path, old, new string, context int) string {
	return Compute(path, old, new, context).Unified()
}

// Unified renders the diff in unified format with a/ and b/ path headers.
func (d *FileDiff) Unified() string {
	if !d.Changed() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", d.Path)
	fmt.Fprintf(&sb, "+++ b/%s\n", d.Path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Kind {
			case Added:
				sb.WriteString("+")
			case Removed:
				sb.WriteString("-")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(l.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// lineOp is one line with its position on both sides. beforeOld/beforeNew
// count the lines consumed before this one, which is what hunk headers
// need for zero-count ranges.
type lineOp struct {
	kind      LineKind
	text      string
	beforeOld int
	beforeNew int
}

// lineOps runs the character diff over line-encoded text, so every edit
// lands on a line boundary, then flattens the result to per-line
// operations.
func lineOps(old, new string) []lineOp {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var ops []lineOp
	oldSeen, newSeen := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			op := lineOp{text: text, beforeOld: oldSeen, beforeNew: newSeen}
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				op.kind = Removed
				oldSeen++
			case diffmatchpatch.DiffInsert:
				op.kind = Added
				newSeen++
			default:
				op.kind = Context
				oldSeen++
				newSeen++
			}
			ops = append(ops, op)
		}
	}
	return ops
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// group keeps every changed line plus context lines around it and cuts the
// kept runs into hunks.
func group(ops []lineOp, context int) []Hunk {
	n := len(ops)
	keep := make([]bool, n)
	any := false
	for i, op := range ops {
		if op.kind == Context {
			continue
		}
		any = true
		for j := max(0, i-context); j <= min(n-1, i+context); j++ {
			keep[j] = true
		}
	}
	if !any {
		return nil
	}

	var hunks []Hunk
	for i := 0; i < n; {
		if !keep[i] {
			i++
			continue
		}
		j := i
		for j < n && keep[j] {
			j++
		}
		hunks = append(hunks, buildHunk(ops[i:j]))
		i = j
	}
	return hunks
}

func buildHunk(ops []lineOp) Hunk {
	h := Hunk{}
	for _, op := range ops {
		line := Line{Kind: op.kind, Text: op.text}
		if op.kind != Added {
			h.OldCount++
			line.OldNum = op.beforeOld + 1
		}
		if op.kind != Removed {
			h.NewCount++
			line.NewNum = op.beforeNew + 1
		}
		h.Lines = append(h.Lines, line)
	}
	h.OldStart = ops[0].beforeOld + 1
	if h.OldCount == 0 {
		h.OldStart = ops[0].beforeOld
	}
	h.NewStart = ops[0].beforeNew + 1
	if h.NewCount == 0 {
		h.NewStart = ops[0].beforeNew
	}
	return h
}
