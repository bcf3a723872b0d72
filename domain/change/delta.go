// Package change holds the diff model: file deltas between two trees, their
// hunk/line structure, and per-file author attribution.
package change

import "github.com/reposcope/reposcope/domain/history"

// WorkingTree is the sentinel revision identity used in place of a "to"
// revision when diffing against the on-disk checkout.
const WorkingTree = "WORKING_TREE"

// Status classifies one file's change between two trees.
type Status string

// Status values.
const (
	StatusAdded       Status = "added"
	StatusDeleted     Status = "deleted"
	StatusModified    Status = "modified"
	StatusRenamed     Status = "renamed"
	StatusCopied      Status = "copied"
	StatusTypeChanged Status = "typechanged"
	StatusUnmodified  Status = "unmodified"
)

// LineKind classifies a single diff line.
type LineKind string

// LineKind values.
const (
	LineContext  LineKind = "context"
	LineAddition LineKind = "addition"
	LineDeletion LineKind = "deletion"
	LineHeader   LineKind = "header"
)

// Line is a single line within a hunk. OldNumber and NewNumber are 1-based;
// zero means the line has no position on that side.
type Line struct {
	Kind      LineKind
	OldNumber int
	NewNumber int
	Text      string
}

// Hunk is a contiguous block of changed lines with surrounding context.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Header   string
	Lines    []Line
}

// AuthorContribution records one author's activity on a single file across a
// revision range.
type AuthorContribution struct {
	Email         string
	Name          string
	Commits       int
	LastTimestamp int64
}

// FileDelta is one file's change between two trees. Content fields are nil
// for binary files.
type FileDelta struct {
	OldPath    string
	NewPath    string
	Status     Status
	Binary     bool
	OldContent *string
	NewContent *string
	Hunks      []Hunk

	// Authors lists everyone who touched this file in the diffed range,
	// sorted by commit count descending, recency descending.
	Authors []AuthorContribution

	// TopAuthor is the email of the first entry in Authors, if any.
	TopAuthor string
}

// Path returns the file's current path, falling back to the old path for
// deletions.
func (d FileDelta) Path() string {
	if d.NewPath != "" {
		return d.NewPath
	}
	return d.OldPath
}

// Stats aggregates a diff's size.
type Stats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Result is a complete reconstructed diff.
type Result struct {
	// From is the base revision ID; empty when the target is a root
	// revision diffed against an empty tree.
	From string

	// To is the target revision ID, or the WorkingTree sentinel.
	To string

	// Path is the subtree filter the diff was restricted to, if any.
	Path string

	Files []FileDelta
	Stats Stats

	// Contributors lists the distinct authors appearing across all file
	// attributions, sorted by name.
	Contributors []history.Signature

	TotalFiles    int
	FilteredFiles int
}
