package git

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/reposcope/reposcope/domain/history"
)

// Branches lists local and remote branches: local first with the current
// branch leading, then remote, each group sorted by name.
func (s *Store) Branches() ([]history.Branch, error) {
	current := s.HeadBranch()

	var local, remote []history.Branch

	branchIter, err := s.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("get branches: %w", err)
	}
	defer branchIter.Close()

	err = branchIter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		local = append(local, history.Branch{
			Name:    name,
			Current: name == current,
			Last:    s.lastRevision(ref.Hash()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	refIter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("get references: %w", err)
	}
	defer refIter.Close()

	err = refIter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}
		name := ref.Name().Short()
		if strings.HasSuffix(name, "/HEAD") {
			return nil
		}
		remote = append(remote, history.Branch{
			Name:   name,
			Remote: true,
			Last:   s.lastRevision(ref.Hash()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate remote refs: %w", err)
	}

	sort.Slice(local, func(i, j int) bool {
		if local[i].Current != local[j].Current {
			return local[i].Current
		}
		return strings.ToLower(local[i].Name) < strings.ToLower(local[j].Name)
	})
	sort.Slice(remote, func(i, j int) bool {
		return strings.ToLower(remote[i].Name) < strings.ToLower(remote[j].Name)
	})

	return append(local, remote...), nil
}

func (s *Store) lastRevision(hash plumbing.Hash) *history.Revision {
	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		return nil
	}
	rev := revisionFromCommit(commit)
	return &rev
}
