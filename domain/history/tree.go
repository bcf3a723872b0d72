package history

// EntryKind classifies a tree entry.
type EntryKind string

// EntryKind values.
const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
	EntrySymlink   EntryKind = "symlink"
	EntrySubmodule EntryKind = "submodule"
)

// TreeEntry is one entry of a directory listing at the head tree.
type TreeEntry struct {
	// Name is the entry's base name; Path is its full path from the
	// repository root.
	Name string
	Path string

	Kind EntryKind

	// Size is the blob size in bytes. It is meaningful for files only.
	Size int64

	// Last is the newest revision that touched the entry, when requested.
	Last *Revision
}

// TreeNode is one node of the full recursive head tree. Children is nil for
// non-directories.
type TreeNode struct {
	Name     string
	Path     string
	Kind     EntryKind
	Children []TreeNode
}

// DirectoryInfo aggregates a subtree of the head tree: recursive entry
// counts and the history of the revisions touching it.
type DirectoryInfo struct {
	Path        string
	Files       int
	Directories int

	// TotalSize sums the blob sizes under the subtree.
	TotalSize int64

	// Contributors is the per-path aggregate, sorted by commit count
	// descending.
	Contributors []Contributor

	// First and Last bracket the subtree's history; nil when no revision
	// touches it.
	First *Revision
	Last  *Revision
}
