package service

import (
	"sort"
	"time"

	"github.com/reposcope/reposcope/domain/history"
	"github.com/reposcope/reposcope/infrastructure/git"
)

// historyCache is one snapshot of the full revision history plus its lazily
// built per-path indices. Indices hold positions into revisions, never
// copies, so discarding the cache object invalidates everything derived
// from it at once.
type historyCache struct {
	// revisions is the full history reachable from headID, newest first.
	revisions []history.Revision

	// headID is the head revision the snapshot was captured at.
	headID string

	takenAt time.Time

	// indices maps a subtree path to its touching-set. The empty path is
	// the root index covering every revision, pre-populated at build time.
	indices map[string]*pathIndex
}

// pathIndex is the touching-set for one path: positions into the snapshot
// plus the contributor aggregate over those revisions.
type pathIndex struct {
	positions    []int
	contributors []history.Contributor
}

// buildHistoryCache captures revision metadata for the entire ancestry of
// the current head. No per-path work happens here.
func buildHistoryCache(store *git.Store) (*historyCache, error) {
	headID, err := store.Head()
	if err != nil {
		return nil, err
	}

	var revisions []history.Revision
	err = store.WalkHistory(func(rev history.Revision) error {
		revisions = append(revisions, rev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache := &historyCache{
		revisions: revisions,
		headID:    headID,
		takenAt:   time.Now(),
		indices:   make(map[string]*pathIndex),
	}
	cache.indices[""] = cache.rootIndex()

	return cache, nil
}

// rootIndex is the identity index: every revision trivially touches root.
func (c *historyCache) rootIndex() *pathIndex {
	positions := make([]int, len(c.revisions))
	counts := make(map[string]*history.Contributor)
	for i, rev := range c.revisions {
		positions[i] = i
		foldContributor(counts, rev.Author)
	}
	return &pathIndex{
		positions:    positions,
		contributors: sortContributors(counts),
	}
}

// valid reports whether the snapshot still matches the store's head. A head
// that no longer resolves counts as invalid.
func (c *historyCache) valid(store *git.Store) bool {
	head, err := store.Head()
	return err == nil && head == c.headID
}

// pathIndexFor returns the touching-set for path, building it on first use.
// Building diffs every snapshot revision against its first parent under the
// path, so it is expensive once and free afterwards.
func (c *historyCache) pathIndexFor(store *git.Store, path string) (*pathIndex, error) {
	if idx, ok := c.indices[path]; ok {
		return idx, nil
	}

	idx := &pathIndex{}
	counts := make(map[string]*history.Contributor)
	for i, rev := range c.revisions {
		touches, err := store.TouchesPath(rev.ID, path)
		if err != nil {
			return nil, err
		}
		if !touches {
			continue
		}
		idx.positions = append(idx.positions, i)
		foldContributor(counts, rev.Author)
	}
	idx.contributors = sortContributors(counts)

	c.indices[path] = idx
	return idx, nil
}

// query applies author exclusion and pagination over a built index. The
// contributor list always reflects the unfiltered touching-set.
func (c *historyCache) query(idx *pathIndex, limit, offset int, excludeAuthors []string) history.Page {
	excluded := make(map[string]bool, len(excludeAuthors))
	for _, email := range excludeAuthors {
		if email != "" {
			excluded[email] = true
		}
	}

	filtered := idx.positions
	if len(excluded) > 0 {
		filtered = make([]int, 0, len(idx.positions))
		for _, pos := range idx.positions {
			if !excluded[c.revisions[pos].Author.Email] {
				filtered = append(filtered, pos)
			}
		}
	}

	page := history.Page{
		Total:         len(idx.positions),
		FilteredTotal: len(filtered),
		HasMore:       len(filtered) > offset+limit,
		Contributors:  idx.contributors,
	}

	if offset < len(filtered) {
		end := min(offset+limit, len(filtered))
		for _, pos := range filtered[offset:end] {
			page.Items = append(page.Items, c.revisions[pos])
		}
	}

	return page
}

// ListRevisions returns one page of the revisions touching path, newest
// first. The empty path means the whole repository. Revisions whose author
// email is in excludeAuthors are dropped from the page but not from Total
// or Contributors.
func (s *Session) ListRevisions(path string, limit, offset int, excludeAuthors []string) (history.Page, error) {
	var page history.Page
	err := s.withCache(func(store *git.Store, cache *historyCache) error {
		idx, err := cache.pathIndexFor(store, path)
		if err != nil {
			return err
		}
		page = cache.query(idx, limit, offset, excludeAuthors)
		return nil
	})
	return page, err
}

func foldContributor(counts map[string]*history.Contributor, sig history.Signature) {
	if entry, ok := counts[sig.Email]; ok {
		entry.Commits++
		return
	}
	counts[sig.Email] = &history.Contributor{
		Name:    sig.Name,
		Email:   sig.Email,
		Commits: 1,
	}
}

func sortContributors(counts map[string]*history.Contributor) []history.Contributor {
	out := make([]history.Contributor, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Email < out[j].Email
	})
	return out
}
