package dto

// LineResponse represents one line of a diff hunk. Zero line numbers mean
// the line is absent from that side.
type LineResponse struct {
	Kind      string `json:"kind"`
	OldNumber int    `json:"old_number,omitempty"`
	NewNumber int    `json:"new_number,omitempty"`
	Content   string `json:"content"`
}

// HunkResponse represents a contiguous run of changes with context.
type HunkResponse struct {
	OldStart int            `json:"old_start"`
	OldLines int            `json:"old_lines"`
	NewStart int            `json:"new_start"`
	NewLines int            `json:"new_lines"`
	Header   string         `json:"header"`
	Lines    []LineResponse `json:"lines"`
}

// AuthorContributionResponse represents one author's activity on a file.
type AuthorContributionResponse struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Commits       int    `json:"commits"`
	LastTimestamp int64  `json:"last_timestamp"`
}

// FileDeltaResponse represents one changed file in a diff.
type FileDeltaResponse struct {
	OldPath            string                       `json:"old_path,omitempty"`
	NewPath            string                       `json:"new_path,omitempty"`
	Status             string                       `json:"status"`
	IsBinary           bool                         `json:"is_binary"`
	OldContent         *string                      `json:"old_content"`
	NewContent         *string                      `json:"new_content"`
	Hunks              []HunkResponse               `json:"hunks"`
	Authors            []AuthorContributionResponse `json:"authors,omitempty"`
	BiggestChangeAuthor string                      `json:"biggest_change_author,omitempty"`
}

// StatsResponse aggregates a diff.
type StatsResponse struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// DiffResponse represents a reconstructed diff between two revisions, or
// between head and the working tree.
type DiffResponse struct {
	FromCommit    string              `json:"from_commit"`
	ToCommit      string              `json:"to_commit"`
	Path          string              `json:"path,omitempty"`
	Files         []FileDeltaResponse `json:"files"`
	Stats         StatsResponse       `json:"stats"`
	Contributors  []SignatureResponse `json:"contributors"`
	TotalFiles    int                 `json:"total_files"`
	FilteredFiles int                 `json:"filtered_files"`
}

// AttributionResponse maps file paths to author contributions for a
// revision range.
type AttributionResponse struct {
	FromCommit string                                  `json:"from_commit,omitempty"`
	ToCommit   string                                  `json:"to_commit"`
	Path       string                                  `json:"path,omitempty"`
	Files      map[string][]AuthorContributionResponse `json:"files"`
}

// BlameLineResponse represents one attributed line of a file.
type BlameLineResponse struct {
	Line        int    `json:"line"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	CommitOID   string `json:"commit_oid"`
	Timestamp   int64  `json:"timestamp"`
}

// BlameResponse represents a full blame of one file.
type BlameResponse struct {
	Path   string              `json:"path"`
	Commit string              `json:"commit"`
	Lines  []BlameLineResponse `json:"lines"`
}
