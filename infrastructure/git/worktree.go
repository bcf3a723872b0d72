package git

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/reposcope/reposcope/domain/change"
)

// DirtyWorktreeError reports a checkout refused because of uncommitted
// changes. Paths holds up to five of the dirty files.
type DirtyWorktreeError struct {
	Paths []string
	Total int
}

func (e *DirtyWorktreeError) Error() string {
	more := ""
	if e.Total > len(e.Paths) {
		more = fmt.Sprintf(" and %d more", e.Total-len(e.Paths))
	}
	return fmt.Sprintf("uncommitted changes in: %v%s", e.Paths, more)
}

// WorktreeDiff diffs the head tree against the on-disk checkout plus staged
// changes. It returns the head revision ID the diff was taken against.
func (s *Store) WorktreeDiff(pathFilter string) (string, []RawDelta, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return "", nil, ErrNoWorktree
		}
		return "", nil, fmt.Errorf("get worktree: %w", err)
	}

	ref, err := s.repo.Head()
	if err != nil {
		return "", nil, fmt.Errorf("%w: resolve HEAD: %v", ErrRevisionNotFound, err)
	}
	headCommit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return "", nil, fmt.Errorf("get head commit: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return "", nil, fmt.Errorf("get head tree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", nil, fmt.Errorf("get worktree status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for p := range status {
		if pathMatches(pathFilter, p) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var deltas []RawDelta
	for _, p := range paths {
		fs := status[p]
		st := worktreeStatus(fs)
		if st == change.StatusUnmodified {
			continue
		}

		delta := RawDelta{Status: st}
		if st != change.StatusAdded {
			delta.OldPath = p
		}
		if st != change.StatusDeleted {
			delta.NewPath = p
		}

		var oldRaw, newRaw []byte
		if delta.OldPath != "" {
			if file, err := headTree.File(delta.OldPath); err == nil {
				if content, err := file.Contents(); err == nil {
					oldRaw = []byte(content)
				}
			}
		}
		if delta.NewPath != "" {
			raw, err := util.ReadFile(wt.Filesystem, delta.NewPath)
			if err == nil {
				newRaw = raw
			}
		}

		if isBinary(oldRaw) || isBinary(newRaw) {
			delta.Binary = true
			deltas = append(deltas, delta)
			continue
		}

		if delta.OldPath != "" {
			text, err := requireText(oldRaw, delta.OldPath)
			if err != nil {
				return "", nil, err
			}
			delta.OldContent = text
		}
		if delta.NewPath != "" {
			text, err := requireText(newRaw, delta.NewPath)
			if err != nil {
				return "", nil, err
			}
			delta.NewContent = text
		}

		deltas = append(deltas, delta)
	}

	return ref.Hash().String(), deltas, nil
}

// WorktreeChanges counts changed files in the working copy, optionally
// restricted to a subtree. Untracked files count; ignored files do not.
func (s *Store) WorktreeChanges(pathFilter string) (int, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return 0, nil
		}
		return 0, fmt.Errorf("get worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return 0, fmt.Errorf("get worktree status: %w", err)
	}

	count := 0
	for p, fs := range status {
		if pathMatches(pathFilter, p) && worktreeStatus(fs) != change.StatusUnmodified {
			count++
		}
	}
	return count, nil
}

// Checkout switches HEAD to a local branch, refusing when the working copy
// has uncommitted tracked changes.
func (s *Store) Checkout(branch string) error {
	branchRef := plumbing.NewBranchReferenceName(branch)
	if _, err := s.repo.Reference(branchRef, true); err != nil {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return ErrNoWorktree
		}
		return fmt.Errorf("get worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("get worktree status: %w", err)
	}

	var dirty []string
	for p, fs := range status {
		if fs.Staging == gogit.Untracked || fs.Worktree == gogit.Untracked {
			continue
		}
		if fs.Staging != gogit.Unmodified || fs.Worktree != gogit.Unmodified {
			dirty = append(dirty, p)
		}
	}
	if len(dirty) > 0 {
		sort.Strings(dirty)
		total := len(dirty)
		if len(dirty) > 5 {
			dirty = dirty[:5]
		}
		return &DirtyWorktreeError{Paths: dirty, Total: total}
	}

	err = wt.Checkout(&gogit.CheckoutOptions{Branch: branchRef, Force: true})
	if err != nil {
		return fmt.Errorf("checkout branch %s: %w", branch, err)
	}

	s.logger.Info("checked out branch", slog.String("branch", branch))
	return nil
}

// worktreeStatus folds a file's staging and worktree codes into one status,
// preferring the worktree side when both changed.
func worktreeStatus(fs *gogit.FileStatus) change.Status {
	code := fs.Worktree
	if code == gogit.Unmodified {
		code = fs.Staging
	}

	switch code {
	case gogit.Untracked, gogit.Added:
		return change.StatusAdded
	case gogit.Deleted:
		return change.StatusDeleted
	case gogit.Renamed:
		return change.StatusRenamed
	case gogit.Copied:
		return change.StatusCopied
	case gogit.Modified, gogit.UpdatedButUnmerged:
		return change.StatusModified
	default:
		return change.StatusUnmodified
	}
}

// isBinary applies git's heuristic: a NUL byte within the first 8000 bytes.
func isBinary(content []byte) bool {
	probe := content
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

func requireText(raw []byte, path string) (*string, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, path)
	}
	text := string(raw)
	return &text, nil
}
