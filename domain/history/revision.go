// Package history holds the pure history model: revisions captured from the
// revision store, contributor aggregates, and paged query results.
package history

// Signature identifies an author or committer.
type Signature struct {
	Name  string
	Email string
}

// Revision is one historical commit's metadata, immutable once captured.
type Revision struct {
	// ID is the full revision hash.
	ID string

	// Message is the commit message with surrounding whitespace trimmed.
	Message string

	Author    Signature
	Committer Signature

	// Timestamp is the committer time in unix seconds. History walks order
	// by it, so it is non-increasing along a snapshot.
	Timestamp int64

	// Parents holds the parent revision IDs, first parent first.
	Parents []string
}

// Root reports whether the revision has no parents.
func (r Revision) Root() bool {
	return len(r.Parents) == 0
}

// Contributor is an author aggregated over a touching-set of revisions.
type Contributor struct {
	Name    string
	Email   string
	Commits int
}

// Page is the result of a paginated, filtered revision query.
type Page struct {
	// Items is the requested page of the filtered sequence.
	Items []Revision

	// Total is the size of the path's touching-set before author filtering.
	Total int

	// FilteredTotal is the size after author exclusion.
	FilteredTotal int

	// HasMore reports whether the filtered sequence extends past this page.
	HasMore bool

	// Contributors is the unfiltered per-path aggregate, sorted by commit
	// count descending. It feeds the author filter control, so it must not
	// shrink when a filter is applied.
	Contributors []Contributor
}
