package change

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContextLines is the context window used for hunk assembly.
const DefaultContextLines = 3

// BuildHunks computes the hunk/line structure between two text contents.
// Change groups separated by at most 2*context unchanged lines are merged
// into a single hunk. It also returns the insertion and deletion line
// counts, tallied as the lines are produced.
func BuildHunks(oldText, newText string, context int) ([]Hunk, int, int) {
	if oldText == newText {
		return nil, 0, 0
	}
	if context < 0 {
		context = DefaultContextLines
	}

	lines := diffLines(oldText, newText)

	// Locate change groups and merge the ones close enough to share context.
	type span struct{ start, end int }
	var spans []span
	for i, ln := range lines {
		if ln.Kind == LineContext {
			continue
		}
		if n := len(spans); n > 0 && i-spans[n-1].end <= 2*context {
			spans[n-1].end = i + 1
		} else {
			spans = append(spans, span{i, i + 1})
		}
	}

	// oldBefore[i] and newBefore[i] count the lines consumed on each side
	// before lines[i], giving hunk start positions without re-scanning.
	oldBefore := make([]int, len(lines)+1)
	newBefore := make([]int, len(lines)+1)
	for i, ln := range lines {
		oldBefore[i+1] = oldBefore[i]
		newBefore[i+1] = newBefore[i]
		if ln.Kind != LineAddition {
			oldBefore[i+1]++
		}
		if ln.Kind != LineDeletion {
			newBefore[i+1]++
		}
	}

	var (
		hunks      []Hunk
		insertions int
		deletions  int
	)
	for _, sp := range spans {
		from := max(0, sp.start-context)
		to := min(len(lines), sp.end+context)

		oldLines := oldBefore[to] - oldBefore[from]
		newLines := newBefore[to] - newBefore[from]
		oldStart := oldBefore[from]
		newStart := newBefore[from]
		if oldLines > 0 {
			oldStart++
		}
		if newLines > 0 {
			newStart++
		}

		hunk := Hunk{
			OldStart: oldStart,
			OldLines: oldLines,
			NewStart: newStart,
			NewLines: newLines,
			Header:   fmt.Sprintf("@@ -%s +%s @@", formatRange(oldStart, oldLines), formatRange(newStart, newLines)),
			Lines:    append([]Line(nil), lines[from:to]...),
		}
		for _, ln := range hunk.Lines {
			switch ln.Kind {
			case LineAddition:
				insertions++
			case LineDeletion:
				deletions++
			}
		}
		hunks = append(hunks, hunk)
	}

	return hunks, insertions, deletions
}

// diffLines runs a line-granularity diff and flattens it into a numbered
// line sequence.
func diffLines(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lineIndex := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineIndex)

	var (
		out  []Line
		oldN int
		newN int
	)
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldN++
				newN++
				out = append(out, Line{Kind: LineContext, OldNumber: oldN, NewNumber: newN, Text: text})
			case diffmatchpatch.DiffDelete:
				oldN++
				out = append(out, Line{Kind: LineDeletion, OldNumber: oldN, Text: text})
			case diffmatchpatch.DiffInsert:
				newN++
				out = append(out, Line{Kind: LineAddition, NewNumber: newN, Text: text})
			}
		}
	}
	return out
}

// splitLines splits text into lines, each keeping its trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// formatRange renders one side of a hunk header, following the unified diff
// convention of omitting the count when it is exactly one.
func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
