package dto

// TreeEntryResponse represents one entry of a tree listing.
type TreeEntryResponse struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	EntryType  string          `json:"entry_type"`
	Size       *int64          `json:"size"`
	LastCommit *CommitResponse `json:"last_commit"`
}

// TreeResponse represents one directory of the tree.
type TreeResponse struct {
	Path    string              `json:"path"`
	Entries []TreeEntryResponse `json:"entries"`
}

// FullTreeEntryResponse represents one node of the recursive tree.
type FullTreeEntryResponse struct {
	Name      string                  `json:"name"`
	Path      string                  `json:"path"`
	EntryType string                  `json:"entry_type"`
	Children  []FullTreeEntryResponse `json:"children,omitempty"`
}

// FullTreeResponse represents the entire tree.
type FullTreeResponse struct {
	Entries []FullTreeEntryResponse `json:"entries"`
}

// FileContentResponse carries the text content of one file.
type FileContentResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DirectoryInfoResponse aggregates one directory of the tree.
type DirectoryInfoResponse struct {
	Path           string                `json:"path"`
	FileCount      int                   `json:"file_count"`
	DirectoryCount int                   `json:"directory_count"`
	TotalSize      int64                 `json:"total_size"`
	Contributors   []ContributorResponse `json:"contributors"`
	FirstCommit    *CommitResponse       `json:"first_commit"`
	LatestCommit   *CommitResponse       `json:"latest_commit"`
}
