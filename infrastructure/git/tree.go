package git

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/reposcope/reposcope/domain/history"
)

// TreeEntries lists one directory of the head tree, directories first, then
// files, each group sorted by lowercase name. The empty path lists the root.
func (s *Store) TreeEntries(path string) ([]history.TreeEntry, error) {
	root, err := s.headTree()
	if err != nil {
		return nil, err
	}
	path = normalizeTreePath(path)
	target, err := subtree(root, path)
	if err != nil {
		return nil, err
	}

	entries := make([]history.TreeEntry, 0, len(target.Entries))
	for i := range target.Entries {
		te := target.Entries[i]
		entry := history.TreeEntry{
			Name: te.Name,
			Path: joinTreePath(path, te.Name),
			Kind: entryKind(te.Mode),
		}
		if entry.Kind == history.EntryFile || entry.Kind == history.EntrySymlink {
			if file, err := target.TreeEntryFile(&te); err == nil {
				entry.Size = file.Size
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].Kind == history.EntryDirectory
		dj := entries[j].Kind == history.EntryDirectory
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// FullTree returns the entire head tree as a recursive node structure,
// each level sorted like TreeEntries.
func (s *Store) FullTree() ([]history.TreeNode, error) {
	root, err := s.headTree()
	if err != nil {
		return nil, err
	}
	return treeNodes(root, "")
}

func treeNodes(tree *object.Tree, base string) ([]history.TreeNode, error) {
	nodes := make([]history.TreeNode, 0, len(tree.Entries))
	for i := range tree.Entries {
		te := tree.Entries[i]
		node := history.TreeNode{
			Name: te.Name,
			Path: joinTreePath(base, te.Name),
			Kind: entryKind(te.Mode),
		}
		if node.Kind == history.EntryDirectory {
			sub, err := tree.Tree(te.Name)
			if err != nil {
				return nil, fmt.Errorf("get subtree %s: %w", node.Path, err)
			}
			if node.Children, err = treeNodes(sub, node.Path); err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, node)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		di := nodes[i].Kind == history.EntryDirectory
		dj := nodes[j].Kind == history.EntryDirectory
		if di != dj {
			return di
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})

	return nodes, nil
}

// FileContent reads one file of the head tree as UTF-8 text.
func (s *Store) FileContent(path string) (string, error) {
	root, err := s.headTree()
	if err != nil {
		return "", err
	}

	entry, err := root.FindEntry(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if entry.Mode == filemode.Dir || entry.Mode == filemode.Submodule {
		return "", fmt.Errorf("%w: %s is not a file", ErrInvalidPath, path)
	}

	content, err := blobText(root, path)
	if err != nil {
		return "", err
	}
	return *content, nil
}

// DirectoryCounts walks the subtree at path and tallies its recursive file
// and directory counts and total blob size.
func (s *Store) DirectoryCounts(path string) (files, dirs int, size int64, err error) {
	root, err := s.headTree()
	if err != nil {
		return 0, 0, 0, err
	}
	target, err := subtree(root, normalizeTreePath(path))
	if err != nil {
		return 0, 0, 0, err
	}

	walker := object.NewTreeWalker(target, true, nil)
	defer walker.Close()
	for {
		_, entry, err := walker.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, 0, fmt.Errorf("walk tree: %w", err)
		}
		switch entry.Mode {
		case filemode.Dir:
			dirs++
		case filemode.Submodule:
			// Submodules have no blob in this repository.
		default:
			files++
			if file, err := target.TreeEntryFile(&entry); err == nil {
				size += file.Size
			}
		}
	}

	return files, dirs, size, nil
}

// LastRevisions finds the newest revision touching each of paths in a
// single history walk, stopping as soon as every path is matched. Paths
// nothing touched are absent from the result.
func (s *Store) LastRevisions(paths []string) (map[string]history.Revision, error) {
	if len(paths) == 0 {
		return map[string]history.Revision{}, nil
	}

	pending := make(map[string]bool, len(paths))
	for _, p := range paths {
		pending[p] = true
	}

	head, err := s.Head()
	if err != nil {
		return nil, err
	}

	result := make(map[string]history.Revision, len(paths))
	err = s.AncestryDiffWalk("", head, "", func(rev history.Revision, changed []string) error {
		for p := range pending {
			for _, c := range changed {
				if pathMatches(p, c) {
					result[p] = rev
					delete(pending, p)
					break
				}
			}
		}
		if len(pending) == 0 {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) headTree() (*object.Tree, error) {
	commit, err := s.resolveCommit("HEAD")
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get head tree: %w", err)
	}
	return tree, nil
}

// subtree descends from tree to the directory at path. The empty path is
// the tree itself.
func subtree(tree *object.Tree, path string) (*object.Tree, error) {
	if path == "" {
		return tree, nil
	}
	entry, err := tree.FindEntry(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if entry.Mode != filemode.Dir {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, path)
	}
	sub, err := tree.Tree(path)
	if err != nil {
		return nil, fmt.Errorf("get subtree %s: %w", path, err)
	}
	return sub, nil
}

func entryKind(mode filemode.FileMode) history.EntryKind {
	switch mode {
	case filemode.Dir:
		return history.EntryDirectory
	case filemode.Symlink:
		return history.EntrySymlink
	case filemode.Submodule:
		return history.EntrySubmodule
	default:
		return history.EntryFile
	}
}

func normalizeTreePath(path string) string {
	return strings.Trim(path, "/")
}

func joinTreePath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
