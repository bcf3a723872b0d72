package service

import (
	"strings"

	"github.com/reposcope/reposcope/domain/history"
	"github.com/reposcope/reposcope/infrastructure/git"
)

// Tree lists one directory of the head tree, directories first. When
// includeLast is set, each entry carries the newest revision that touched
// it, resolved in a single history walk.
func (s *Session) Tree(path string, includeLast bool) ([]history.TreeEntry, error) {
	var entries []history.TreeEntry
	err := s.withStore(func(store *git.Store) error {
		var err error
		entries, err = store.TreeEntries(path)
		if err != nil || !includeLast {
			return err
		}

		paths := make([]string, len(entries))
		for i := range entries {
			paths[i] = entries[i].Path
		}
		last, err := store.LastRevisions(paths)
		if err != nil {
			return err
		}
		for i := range entries {
			if rev, ok := last[entries[i].Path]; ok {
				rev := rev
				entries[i].Last = &rev
			}
		}
		return nil
	})
	return entries, err
}

// FullTree returns the entire head tree as a recursive node structure.
func (s *Session) FullTree() ([]history.TreeNode, error) {
	var nodes []history.TreeNode
	err := s.withStore(func(store *git.Store) error {
		var err error
		nodes, err = store.FullTree()
		return err
	})
	return nodes, err
}

// FileContent reads one file of the head tree as text. Directories and
// submodules fail with ErrInvalidInput, binary content with ErrInternal.
func (s *Session) FileContent(path string) (string, error) {
	var content string
	err := s.withStore(func(store *git.Store) error {
		var err error
		content, err = store.FileContent(path)
		return err
	})
	return content, err
}

// DirectoryInfo aggregates one directory of the head tree: recursive file
// and directory counts, total blob size, and the history of the subtree
// from the snapshot's touching-set.
func (s *Session) DirectoryInfo(path string) (history.DirectoryInfo, error) {
	path = strings.Trim(path, "/")
	info := history.DirectoryInfo{Path: path}

	err := s.withCache(func(store *git.Store, cache *historyCache) error {
		files, dirs, size, err := store.DirectoryCounts(path)
		if err != nil {
			return err
		}
		info.Files = files
		info.Directories = dirs
		info.TotalSize = size

		idx, err := cache.pathIndexFor(store, path)
		if err != nil {
			return err
		}
		info.Contributors = idx.contributors
		if n := len(idx.positions); n > 0 {
			last := cache.revisions[idx.positions[0]]
			first := cache.revisions[idx.positions[n-1]]
			info.Last = &last
			info.First = &first
		}
		return nil
	})
	return info, err
}
