// Package dto defines the JSON shapes of the v1 API.
package dto

// SignatureResponse represents a commit author or committer.
type SignatureResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitResponse represents a commit in API responses.
type CommitResponse struct {
	OID         string            `json:"oid"`
	Message     string            `json:"message"`
	Author      SignatureResponse `json:"author"`
	Committer   SignatureResponse `json:"committer"`
	Timestamp   int64             `json:"timestamp"`
	ParentCount int               `json:"parent_count"`
	Parents     []string          `json:"parents"`
}

// ContributorResponse represents an author with a commit count.
type ContributorResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}

// CommitListResponse represents one page of commit history.
type CommitListResponse struct {
	Commits       []CommitResponse      `json:"commits"`
	Total         int                   `json:"total"`
	FilteredTotal int                   `json:"filtered_total"`
	HasMore       bool                  `json:"has_more"`
	Contributors  []ContributorResponse `json:"contributors"`
}
