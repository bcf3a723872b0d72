// Package git adapts a go-git repository into the revision store consumed by
// the history and diff services. A Store is not safe for concurrent use; the
// owning session serializes access to it.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/reposcope/reposcope/domain/history"
)

// Sentinel errors classified by the service layer.
var (
	// ErrRepositoryNotFound indicates the path does not contain a git repository.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrRevisionNotFound indicates an identifier did not resolve to a commit.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrBranchNotFound indicates the requested branch was not found.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrPathNotFound indicates a path does not exist in the inspected tree.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidPath indicates a path resolved to the wrong kind of tree
	// entry, such as a file where a directory was required.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotText indicates content was required as text but is not valid UTF-8.
	ErrNotText = errors.New("content is not valid UTF-8")

	// ErrNoWorktree indicates a working-copy operation against a bare repository.
	ErrNoWorktree = errors.New("repository has no working tree")
)

// Store wraps an open go-git repository handle.
type Store struct {
	repo   *gogit.Repository
	path   string
	logger *slog.Logger
}

// Open discovers and opens the repository at or above path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, abs)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Store{repo: repo, path: abs, logger: logger}, nil
}

// Path returns the filesystem path the store was opened at.
func (s *Store) Path() string {
	return s.path
}

// Head resolves HEAD to a concrete revision ID.
func (s *Store) Head() (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("%w: resolve HEAD: %v", ErrRevisionNotFound, err)
	}
	return ref.Hash().String(), nil
}

// HeadBranch returns the short name of the branch HEAD points at, or empty
// when HEAD is detached or unborn.
func (s *Store) HeadBranch() string {
	ref, err := s.repo.Reference(plumbing.HEAD, false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return ""
	}
	target := ref.Target()
	if !target.IsBranch() {
		return ""
	}
	return target.Short()
}

// Bare reports whether the repository has no working tree.
func (s *Store) Bare() bool {
	cfg, err := s.repo.Config()
	if err != nil {
		return false
	}
	return cfg.Core.IsBare
}

// Empty reports whether HEAD resolves to no commit.
func (s *Store) Empty() bool {
	_, err := s.repo.Head()
	return err != nil
}

// Info summarizes the repository for display.
func (s *Store) Info() history.RepositoryInfo {
	info := history.RepositoryInfo{
		Name:       filepath.Base(s.path),
		Path:       s.path,
		HeadBranch: s.HeadBranch(),
		Bare:       s.Bare(),
		Empty:      s.Empty(),
	}

	if ref, err := s.repo.Head(); err == nil {
		if commit, err := s.repo.CommitObject(ref.Hash()); err == nil {
			rev := revisionFromCommit(commit)
			info.Head = &rev
		}
	}

	return info
}

// WalkHistory visits every revision reachable from HEAD in committer-time
// order, newest first.
func (s *Store) WalkHistory(visit func(history.Revision) error) error {
	ref, err := s.repo.Head()
	if err != nil {
		return fmt.Errorf("%w: resolve HEAD: %v", ErrRevisionNotFound, err)
	}

	iter, err := s.repo.Log(&gogit.LogOptions{
		From:  ref.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		return visit(revisionFromCommit(c))
	})
}

// Revision resolves an identifier (full or abbreviated hash, branch, tag,
// or a revision expression such as HEAD~1) to captured metadata.
func (s *Store) Revision(id string) (history.Revision, error) {
	commit, err := s.resolveCommit(id)
	if err != nil {
		return history.Revision{}, err
	}
	return revisionFromCommit(commit), nil
}

func (s *Store) resolveCommit(id string) (*object.Commit, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRevisionNotFound, id)
	}

	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRevisionNotFound, id)
	}

	return commit, nil
}

// parentTree returns the first parent's tree, or nil for root commits.
func parentTree(commit *object.Commit) (*object.Tree, error) {
	if commit.NumParents() == 0 {
		return nil, nil
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("get first parent: %w", err)
	}
	tree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("get parent tree: %w", err)
	}
	return tree, nil
}

func revisionFromCommit(c *object.Commit) history.Revision {
	rev := history.Revision{
		ID:      c.Hash.String(),
		Message: strings.TrimSpace(c.Message),
		Author: history.Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
		},
		Committer: history.Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
		},
		// Committer time, matching the walk order: rebases and
		// cherry-picks move it forward while author time stays behind.
		Timestamp: c.Committer.When.Unix(),
	}

	for _, h := range c.ParentHashes {
		rev.Parents = append(rev.Parents, h.String())
	}

	return rev
}

// pathMatches reports whether p falls under the subtree filter. An empty
// filter matches everything.
func pathMatches(filter, p string) bool {
	if filter == "" {
		return true
	}
	return p == filter || strings.HasPrefix(p, filter+"/")
}
