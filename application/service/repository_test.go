package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/testrepo"
)

func TestInfo(t *testing.T) {
	repo := testrepo.Init(t)
	_, _, c3 := testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	info, err := session.Info()
	require.NoError(t, err)

	assert.Equal(t, "fixture", info.Name)
	assert.Equal(t, repo.Path, info.Path)
	assert.Equal(t, "master", info.HeadBranch)
	assert.False(t, info.Bare)
	assert.False(t, info.Empty)
	require.NotNil(t, info.Head)
	assert.Equal(t, c3, info.Head.ID)
	assert.Equal(t, "extend f", info.Head.Message)
}

func TestInfo_EmptyRepository(t *testing.T) {
	repo := testrepo.Init(t)

	session := newTestSession(t, repo.Path)

	info, err := session.Info()
	require.NoError(t, err)

	assert.True(t, info.Empty)
	assert.Nil(t, info.Head)
}

func TestBranches_CurrentFirst(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.Checkout(t, "master")

	session := newTestSession(t, repo.Path)

	branches, err := session.Branches()
	require.NoError(t, err)

	require.Len(t, branches, 2)
	assert.Equal(t, "master", branches[0].Name)
	assert.True(t, branches[0].Current)
	assert.Equal(t, "dev", branches[1].Name)
	assert.False(t, branches[1].Current)
	require.NotNil(t, branches[0].Last)
	assert.Equal(t, "extend f", branches[0].Last.Message)
}

func TestCheckout(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.WriteFile(t, "dev.txt", "dev only\n")
	repo.Commit(t, "dev commit", "Alice", "alice@example.com", 10)
	repo.Checkout(t, "master")

	session := newTestSession(t, repo.Path)

	require.NoError(t, session.Checkout("dev"))
	assert.FileExists(t, repo.Path+"/dev.txt")
}

func TestCheckout_DirtyWorktree(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.Checkout(t, "master")

	repo.WriteFile(t, "f.txt", "one\ntwo\nlocal edit\n")

	session := newTestSession(t, repo.Path)

	err := session.Checkout("dev")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "f.txt")
}

func TestCheckout_IgnoresUntrackedFiles(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.Checkout(t, "master")

	repo.WriteFile(t, "scratch.txt", "untracked\n")

	session := newTestSession(t, repo.Path)

	require.NoError(t, session.Checkout("dev"))
}

func TestCheckout_UnknownBranch(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	err := session.Checkout("no-such-branch")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlame(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, c3 := testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	lines, err := session.Blame("f.txt", "")
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, c1, lines[0].RevisionID)
	assert.Equal(t, "Alice", lines[0].AuthorName)
	assert.Equal(t, "alice@example.com", lines[0].AuthorEmail)
	assert.Equal(t, 2, lines[1].Number)
	assert.Equal(t, c3, lines[1].RevisionID)
}

func TestBlame_AtRevision(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, _ := testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	lines, err := session.Blame("f.txt", c1)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, c1, lines[0].RevisionID)
}

func TestBlame_UnknownPath(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	_, err := session.Blame("missing.txt", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkingStatus(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	session := newTestSession(t, repo.Path)

	count, err := session.WorkingStatus("")
	require.NoError(t, err)
	assert.Zero(t, count)

	repo.WriteFile(t, "f.txt", "changed\n")
	repo.WriteFile(t, "new.txt", "added\n")

	count, err = session.WorkingStatus("")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = session.WorkingStatus("f.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
