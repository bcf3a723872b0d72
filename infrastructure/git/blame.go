package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	"github.com/reposcope/reposcope/domain/change"
)

// Blame attributes every line of a file to the revision that last modified
// it, evaluated at the given revision (HEAD when empty).
func (s *Store) Blame(path, id string) ([]change.BlameLine, error) {
	if id == "" {
		head, err := s.Head()
		if err != nil {
			return nil, err
		}
		id = head
	}

	commit, err := s.resolveCommit(id)
	if err != nil {
		return nil, err
	}

	result, err := gogit.Blame(commit, path)
	if err != nil {
		return nil, fmt.Errorf("%w: blame %s: %v", ErrPathNotFound, path, err)
	}

	lines := make([]change.BlameLine, 0, len(result.Lines))
	for i, line := range result.Lines {
		lines = append(lines, change.BlameLine{
			Number:      i + 1,
			AuthorName:  line.AuthorName,
			AuthorEmail: line.Author,
			RevisionID:  line.Hash.String(),
			Timestamp:   line.Date.Unix(),
		})
	}

	return lines, nil
}
