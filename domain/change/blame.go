package change

// BlameLine attributes a single line of a file to the revision that last
// modified it.
type BlameLine struct {
	// Number is the 1-based line number.
	Number      int
	AuthorName  string
	AuthorEmail string
	RevisionID  string
	Timestamp   int64
}
