package git

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/domain/history"
)

// RawDelta is one changed entry from a structural diff, before hunk
// reconstruction. Content fields are nil for binary files and for the
// missing side of additions and deletions.
type RawDelta struct {
	OldPath    string
	NewPath    string
	Status     change.Status
	Binary     bool
	OldContent *string
	NewContent *string
}

// TouchesPath reports whether the revision changed anything under the given
// subtree, by diffing its tree against its first parent's tree.
func (s *Store) TouchesPath(id, path string) (bool, error) {
	commit, err := s.resolveCommit(id)
	if err != nil {
		return false, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return false, fmt.Errorf("get tree: %w", err)
	}

	parent, err := parentTree(commit)
	if err != nil {
		return false, err
	}

	changes, err := object.DiffTree(parent, tree)
	if err != nil {
		return false, fmt.Errorf("diff trees: %w", err)
	}

	for _, ch := range changes {
		if pathMatches(path, ch.From.Name) || pathMatches(path, ch.To.Name) {
			return true, nil
		}
	}
	return false, nil
}

// TreeDiff computes the structural diff between two revisions, with rename
// detection, restricted to pathFilter when non-empty. The base revision may
// be empty, in which case the target is diffed against an empty tree.
func (s *Store) TreeDiff(fromID, toID, pathFilter string) ([]RawDelta, error) {
	toCommit, err := s.resolveCommit(toID)
	if err != nil {
		return nil, err
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	var fromTree *object.Tree
	if fromID != "" {
		fromCommit, err := s.resolveCommit(fromID)
		if err != nil {
			return nil, err
		}
		if fromTree, err = fromCommit.Tree(); err != nil {
			return nil, fmt.Errorf("get tree: %w", err)
		}
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	var deltas []RawDelta
	for _, ch := range changes {
		if !pathMatches(pathFilter, ch.From.Name) && !pathMatches(pathFilter, ch.To.Name) {
			continue
		}

		delta, err := s.rawDelta(ch, fromTree, toTree)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, delta)
	}

	return deltas, nil
}

func (s *Store) rawDelta(ch *object.Change, fromTree, toTree *object.Tree) (RawDelta, error) {
	delta := RawDelta{
		OldPath: ch.From.Name,
		NewPath: ch.To.Name,
		Status:  classifyChange(ch),
	}

	// Binary on either side suppresses content for both.
	for _, side := range []struct {
		tree *object.Tree
		path string
	}{
		{fromTree, delta.OldPath},
		{toTree, delta.NewPath},
	} {
		if side.tree == nil || side.path == "" {
			continue
		}
		file, err := side.tree.File(side.path)
		if err != nil {
			continue
		}
		binary, err := file.IsBinary()
		if err == nil && binary {
			delta.Binary = true
		}
	}
	if delta.Binary {
		return delta, nil
	}

	if fromTree != nil && delta.OldPath != "" {
		content, err := blobText(fromTree, delta.OldPath)
		if err != nil && !errors.Is(err, ErrPathNotFound) {
			return RawDelta{}, err
		}
		delta.OldContent = content
	}
	if delta.NewPath != "" {
		content, err := blobText(toTree, delta.NewPath)
		if err != nil && !errors.Is(err, ErrPathNotFound) {
			return RawDelta{}, err
		}
		delta.NewContent = content
	}

	return delta, nil
}

func classifyChange(ch *object.Change) change.Status {
	action, err := ch.Action()
	if err != nil {
		return change.StatusUnmodified
	}

	switch action {
	case merkletrie.Insert:
		return change.StatusAdded
	case merkletrie.Delete:
		return change.StatusDeleted
	case merkletrie.Modify:
		if ch.From.Name != ch.To.Name {
			return change.StatusRenamed
		}
		if ch.From.TreeEntry.Mode != ch.To.TreeEntry.Mode {
			return change.StatusTypeChanged
		}
		return change.StatusModified
	default:
		return change.StatusUnmodified
	}
}

// blobText fetches a blob's full content as UTF-8 text.
func blobText(tree *object.Tree, path string) (*string, error) {
	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("get file %s: %w", path, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, path)
	}

	return &content, nil
}

// AncestryDiffWalk visits every revision reachable from toID but not from
// fromID, in topological committer-time order, yielding the file paths each
// revision changed relative to its first parent. fromID's entire ancestry is
// excluded; an empty fromID walks all of toID's ancestry.
func (s *Store) AncestryDiffWalk(fromID, toID, pathFilter string, visit func(rev history.Revision, paths []string) error) error {
	toCommit, err := s.resolveCommit(toID)
	if err != nil {
		return err
	}

	seen := map[plumbing.Hash]bool{}
	if fromID != "" {
		fromCommit, err := s.resolveCommit(fromID)
		if err != nil {
			return err
		}
		iter := object.NewCommitPreorderIter(fromCommit, nil, nil)
		err = iter.ForEach(func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return fmt.Errorf("walk base ancestry: %w", err)
		}
	}

	iter := object.NewCommitIterCTime(toCommit, seen, nil)
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		tree, err := c.Tree()
		if err != nil {
			return fmt.Errorf("get tree: %w", err)
		}
		parent, err := parentTree(c)
		if err != nil {
			return err
		}

		changes, err := object.DiffTree(parent, tree)
		if err != nil {
			return fmt.Errorf("diff trees: %w", err)
		}

		var paths []string
		for _, ch := range changes {
			p := ch.To.Name
			if p == "" {
				p = ch.From.Name
			}
			if pathMatches(pathFilter, p) {
				paths = append(paths, p)
			}
		}
		if len(paths) == 0 {
			return nil
		}

		return visit(revisionFromCommit(c), paths)
	})
}
