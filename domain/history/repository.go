package history

// RepositoryInfo summarizes an open repository.
type RepositoryInfo struct {
	Name       string
	Path       string
	HeadBranch string
	Head       *Revision
	Bare       bool
	Empty      bool
}

// Branch is one local or remote branch head.
type Branch struct {
	Name    string
	Current bool
	Remote  bool
	Last    *Revision
}
