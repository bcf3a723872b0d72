package service

import (
	"sort"
	"strings"

	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/domain/history"
	"github.com/reposcope/reposcope/infrastructure/git"
)

// Diff reconstructs what changed between two revisions. When from is empty
// it defaults to to's first parent, or to an empty base for root revisions.
// A non-empty path restricts the diff to that subtree. Each file is
// enriched with the authors who touched it in the diffed range.
func (s *Session) Diff(from, to, path string) (change.Result, error) {
	var result change.Result
	err := s.withStore(func(store *git.Store) error {
		toRev, err := store.Revision(to)
		if err != nil {
			return err
		}

		fromID := ""
		if from != "" {
			fromRev, err := store.Revision(from)
			if err != nil {
				return err
			}
			fromID = fromRev.ID
		} else if !toRev.Root() {
			fromID = toRev.Parents[0]
		}

		deltas, err := store.TreeDiff(fromID, toRev.ID, path)
		if err != nil {
			return err
		}

		files, stats := reconstruct(deltas, s.contextLines)

		attributions, err := attributeAuthors(store, fromID, toRev.ID, path)
		if err != nil {
			return err
		}
		contributors := enrich(files, attributions)

		result = change.Result{
			From:          fromID,
			To:            toRev.ID,
			Path:          path,
			Files:         files,
			Stats:         stats,
			Contributors:  contributors,
			TotalFiles:    len(files),
			FilteredFiles: len(files),
		}
		return nil
	})
	return result, err
}

// WorkingDiff diffs the head tree against the on-disk checkout plus staged
// changes. The result carries the WorkingTree sentinel in place of a target
// revision and sources new content from the filesystem; no author
// attribution applies to uncommitted work.
func (s *Session) WorkingDiff(path string) (change.Result, error) {
	var result change.Result
	err := s.withStore(func(store *git.Store) error {
		headID, deltas, err := store.WorktreeDiff(path)
		if err != nil {
			return err
		}

		files, stats := reconstruct(deltas, s.contextLines)

		result = change.Result{
			From:          headID,
			To:            change.WorkingTree,
			Path:          path,
			Files:         files,
			Stats:         stats,
			TotalFiles:    len(files),
			FilteredFiles: len(files),
		}
		return nil
	})
	return result, err
}

// reconstruct turns raw structural deltas into file deltas with hunks,
// tallying insertion and deletion counts as the lines are produced.
func reconstruct(deltas []git.RawDelta, contextLines int) ([]change.FileDelta, change.Stats) {
	var (
		files []change.FileDelta
		stats change.Stats
	)
	for _, delta := range deltas {
		file := change.FileDelta{
			OldPath:    delta.OldPath,
			NewPath:    delta.NewPath,
			Status:     delta.Status,
			Binary:     delta.Binary,
			OldContent: delta.OldContent,
			NewContent: delta.NewContent,
		}

		if !file.Binary {
			var oldText, newText string
			if file.OldContent != nil {
				oldText = *file.OldContent
			}
			if file.NewContent != nil {
				newText = *file.NewContent
			}
			hunks, insertions, deletions := change.BuildHunks(oldText, newText, contextLines)
			file.Hunks = hunks
			stats.Insertions += insertions
			stats.Deletions += deletions
		}

		files = append(files, file)
		stats.FilesChanged++
	}
	return files, stats
}

// enrich attaches per-file attributions and derives the distinct contributor
// list, sorted by name.
func enrich(files []change.FileDelta, attributions map[string][]change.AuthorContribution) []history.Signature {
	seen := make(map[string]history.Signature)
	for i := range files {
		authors, ok := attributions[files[i].Path()]
		if !ok {
			continue
		}
		files[i].Authors = authors
		files[i].TopAuthor = authors[0].Email
		for _, a := range authors {
			if _, ok := seen[a.Email]; !ok {
				seen[a.Email] = history.Signature{Name: a.Name, Email: a.Email}
			}
		}
	}

	contributors := make([]history.Signature, 0, len(seen))
	for _, sig := range seen {
		contributors = append(contributors, sig)
	}
	sort.Slice(contributors, func(i, j int) bool {
		return strings.ToLower(contributors[i].Name) < strings.ToLower(contributors[j].Name)
	})
	return contributors
}
