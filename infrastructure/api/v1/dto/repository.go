package dto

// RepositoryResponse describes the repository currently served.
type RepositoryResponse struct {
	Name         string          `json:"name"`
	Path         string          `json:"path"`
	HeadBranch   string          `json:"head_branch,omitempty"`
	Head         *CommitResponse `json:"head"`
	IsBare       bool            `json:"is_bare"`
	IsEmpty      bool            `json:"is_empty"`
	ChangedFiles int             `json:"changed_files"`
}

// BranchResponse represents a local or remote branch.
type BranchResponse struct {
	Name       string          `json:"name"`
	IsCurrent  bool            `json:"is_current"`
	IsRemote   bool            `json:"is_remote"`
	LastCommit *CommitResponse `json:"last_commit"`
}

// BranchListResponse represents all branches of the repository.
type BranchListResponse struct {
	Branches []BranchResponse `json:"branches"`
}

// CheckoutRequest asks for a branch checkout.
type CheckoutRequest struct {
	Branch string `json:"branch"`
}

// CheckoutResponse confirms a branch checkout.
type CheckoutResponse struct {
	Branch string `json:"branch"`
}

// SwitchRequest asks to serve a different repository.
type SwitchRequest struct {
	Path string `json:"path"`
}

// CacheResponse reports the state of the history snapshot cache.
type CacheResponse struct {
	Revisions    int     `json:"revisions"`
	IndexedPaths int     `json:"indexed_paths"`
	AgeSeconds   float64 `json:"age_seconds"`
}
