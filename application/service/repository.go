package service

import (
	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/domain/history"
	"github.com/reposcope/reposcope/infrastructure/git"
)

// Info summarizes the open repository.
func (s *Session) Info() (history.RepositoryInfo, error) {
	var info history.RepositoryInfo
	err := s.withStore(func(store *git.Store) error {
		info = store.Info()
		return nil
	})
	return info, err
}

// Branches lists local and remote branches, current branch first.
func (s *Session) Branches() ([]history.Branch, error) {
	var branches []history.Branch
	err := s.withStore(func(store *git.Store) error {
		var err error
		branches, err = store.Branches()
		return err
	})
	return branches, err
}

// Checkout switches the working copy to a local branch. It fails with
// ErrConflict when uncommitted tracked changes exist.
func (s *Session) Checkout(branch string) error {
	return s.withStore(func(store *git.Store) error {
		return store.Checkout(branch)
	})
}

// Resolve maps a revision expression, such as a branch name or an
// abbreviated hash, to the revision it names.
func (s *Session) Resolve(id string) (history.Revision, error) {
	var rev history.Revision
	err := s.withStore(func(store *git.Store) error {
		var err error
		rev, err = store.Revision(id)
		return err
	})
	return rev, err
}

// Blame attributes every line of the file at path to the revision that last
// modified it, evaluated at revision (HEAD when empty).
func (s *Session) Blame(path, revision string) ([]change.BlameLine, error) {
	var lines []change.BlameLine
	err := s.withStore(func(store *git.Store) error {
		var err error
		lines, err = store.Blame(path, revision)
		return err
	})
	return lines, err
}

// WorkingStatus counts changed files in the working copy under path.
func (s *Session) WorkingStatus(path string) (int, error) {
	var count int
	err := s.withStore(func(store *git.Store) error {
		var err error
		count, err = store.WorktreeChanges(path)
		return err
	})
	return count, err
}
