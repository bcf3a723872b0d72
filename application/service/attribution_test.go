package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/testrepo"
)

func TestAttributeAuthors_FullAncestry(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	files, err := session.AttributeAuthors("", "HEAD", "")
	require.NoError(t, err)

	require.Len(t, files, 2)

	require.Len(t, files["f.txt"], 1)
	assert.Equal(t, "alice@example.com", files["f.txt"][0].Email)
	assert.Equal(t, "Alice", files["f.txt"][0].Name)
	assert.Equal(t, 2, files["f.txt"][0].Commits)

	require.Len(t, files["g.txt"], 1)
	assert.Equal(t, "bob@example.com", files["g.txt"][0].Email)
	assert.Equal(t, 1, files["g.txt"][0].Commits)
}

func TestAttributeAuthors_ExcludesBaseAncestry(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, _ := testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	files, err := session.AttributeAuthors(c1, "HEAD", "")
	require.NoError(t, err)

	// Only c2 and c3 are in range, so f.txt has a single Alice commit.
	require.Len(t, files["f.txt"], 1)
	assert.Equal(t, 1, files["f.txt"][0].Commits)
	require.Len(t, files["g.txt"], 1)
}

func TestAttributeAuthors_CommitCountBeatsRecency(t *testing.T) {
	repo := testrepo.Init(t)

	// Bob touches shared.txt more often; Alice touches it last. Ordering
	// is by commit count first, so Bob stays on top.
	repo.WriteFile(t, "shared.txt", "v1\n")
	repo.Commit(t, "v1", "Bob", "bob@example.com", 0)
	repo.WriteFile(t, "shared.txt", "v2\n")
	repo.Commit(t, "v2", "Bob", "bob@example.com", 1)
	repo.WriteFile(t, "shared.txt", "v3\n")
	repo.Commit(t, "v3", "Bob", "bob@example.com", 2)
	repo.WriteFile(t, "shared.txt", "v4\n")
	repo.Commit(t, "v4", "Alice", "alice@example.com", 10)
	repo.WriteFile(t, "shared.txt", "v5\n")
	repo.Commit(t, "v5", "Alice", "alice@example.com", 11)

	session := newTestSession(t, repo.Path)

	files, err := session.AttributeAuthors("", "HEAD", "")
	require.NoError(t, err)

	authors := files["shared.txt"]
	require.Len(t, authors, 2)
	assert.Equal(t, "bob@example.com", authors[0].Email)
	assert.Equal(t, 3, authors[0].Commits)
	assert.Equal(t, "alice@example.com", authors[1].Email)
	assert.Equal(t, 2, authors[1].Commits)

	// Recency still tracks each author's newest commit.
	assert.Greater(t, authors[1].LastTimestamp, authors[0].LastTimestamp)
}

func TestAttributeAuthors_RecencyBreaksTies(t *testing.T) {
	repo := testrepo.Init(t)

	repo.WriteFile(t, "tie.txt", "a\n")
	repo.Commit(t, "a", "Bob", "bob@example.com", 0)
	repo.WriteFile(t, "tie.txt", "b\n")
	repo.Commit(t, "b", "Alice", "alice@example.com", 5)

	session := newTestSession(t, repo.Path)

	files, err := session.AttributeAuthors("", "HEAD", "")
	require.NoError(t, err)

	authors := files["tie.txt"]
	require.Len(t, authors, 2)
	assert.Equal(t, "alice@example.com", authors[0].Email)
	assert.Equal(t, "bob@example.com", authors[1].Email)
}

func TestAttributeAuthors_PathFilter(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	files, err := session.AttributeAuthors("", "HEAD", "f.txt")
	require.NoError(t, err)

	require.Len(t, files, 1)
	_, ok := files["f.txt"]
	assert.True(t, ok)
}
