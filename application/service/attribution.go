package service

import (
	"sort"

	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/domain/history"
	"github.com/reposcope/reposcope/infrastructure/git"
)

// AttributeAuthors walks the revisions reachable from to but not from from
// and attributes every changed file to the authors who touched it, sorted
// by commit count descending, recency descending. An empty from covers all
// of to's ancestry; a non-empty path restricts attribution to that subtree.
//
// The walk re-derives its revision range from the store on every call
// rather than reusing the history snapshot.
func (s *Session) AttributeAuthors(from, to, path string) (map[string][]change.AuthorContribution, error) {
	var result map[string][]change.AuthorContribution
	err := s.withStore(func(store *git.Store) error {
		var err error
		result, err = attributeAuthors(store, from, to, path)
		return err
	})
	return result, err
}

func attributeAuthors(store *git.Store, fromID, toID, pathFilter string) (map[string][]change.AuthorContribution, error) {
	perFile := make(map[string]map[string]*change.AuthorContribution)

	err := store.AncestryDiffWalk(fromID, toID, pathFilter, func(rev history.Revision, paths []string) error {
		for _, p := range paths {
			authors, ok := perFile[p]
			if !ok {
				authors = make(map[string]*change.AuthorContribution)
				perFile[p] = authors
			}

			entry, ok := authors[rev.Author.Email]
			if !ok {
				entry = &change.AuthorContribution{
					Email:         rev.Author.Email,
					Name:          rev.Author.Name,
					LastTimestamp: rev.Timestamp,
				}
				authors[rev.Author.Email] = entry
			}

			entry.Commits++
			if rev.Timestamp > entry.LastTimestamp {
				entry.LastTimestamp = rev.Timestamp
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string][]change.AuthorContribution, len(perFile))
	for p, authors := range perFile {
		sorted := make([]change.AuthorContribution, 0, len(authors))
		for _, a := range authors {
			sorted = append(sorted, *a)
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Commits != sorted[j].Commits {
				return sorted[i].Commits > sorted[j].Commits
			}
			return sorted[i].LastTimestamp > sorted[j].LastTimestamp
		})
		result[p] = sorted
	}

	return result, nil
}
