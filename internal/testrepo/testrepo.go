// Package testrepo builds throwaway git repositories for tests.
package testrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Epoch is the base time for fixture commits. Commit helpers offset from
// it so committer-time ordering is deterministic.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Repo is a writable fixture repository.
type Repo struct {
	Path string
	Git  *gogit.Repository
}

// Init creates an empty repository in a temp directory.
func Init(t *testing.T) *Repo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture")
	repo, err := gogit.PlainInit(path, false)
	require.NoError(t, err)

	return &Repo{Path: path, Git: repo}
}

// WriteFile writes content to a file relative to the repository root,
// creating parent directories as needed.
func (r *Repo) WriteFile(t *testing.T, path, content string) {
	t.Helper()

	full := filepath.Join(r.Path, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// WriteBinary writes raw bytes to a file relative to the repository root.
func (r *Repo) WriteBinary(t *testing.T, path string, content []byte) {
	t.Helper()

	full := filepath.Join(r.Path, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, content, 0o644))
}

// Remove deletes a file relative to the repository root.
func (r *Repo) Remove(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(r.Path, path)))
}

// Commit stages everything and commits as the given author, offset
// minutes after Epoch. It returns the commit hash.
func (r *Repo) Commit(t *testing.T, message, name, email string, offsetMinutes int) string {
	t.Helper()

	wt, err := r.Git.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&gogit.AddOptions{All: true}))

	when := Epoch.Add(time.Duration(offsetMinutes) * time.Minute)
	sig := &object.Signature{Name: name, Email: email, When: when}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	require.NoError(t, err)

	return hash.String()
}

// CommitDivergent stages everything and commits with the author and
// committer times offset independently from Epoch, the shape rebases and
// cherry-picks produce. It returns the commit hash.
func (r *Repo) CommitDivergent(t *testing.T, message, name, email string, authorMinutes, committerMinutes int) string {
	t.Helper()

	wt, err := r.Git.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&gogit.AddOptions{All: true}))

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name: name, Email: email,
			When: Epoch.Add(time.Duration(authorMinutes) * time.Minute),
		},
		Committer: &object.Signature{
			Name: name, Email: email,
			When: Epoch.Add(time.Duration(committerMinutes) * time.Minute),
		},
	})
	require.NoError(t, err)

	return hash.String()
}

// Branch creates a branch at the current head and checks it out.
func (r *Repo) Branch(t *testing.T, name string) {
	t.Helper()

	wt, err := r.Git.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}))
}

// Checkout switches the worktree to an existing branch.
func (r *Repo) Checkout(t *testing.T, name string) {
	t.Helper()

	wt, err := r.Git.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	}))
}

// Head returns the current head commit hash.
func (r *Repo) Head(t *testing.T) string {
	t.Helper()

	ref, err := r.Git.Head()
	require.NoError(t, err)
	return ref.Hash().String()
}

// Seed builds the standard three-commit fixture used across packages:
//
//	c1 (alice): f.txt created
//	c2 (bob):   g.txt created
//	c3 (alice): f.txt modified
//
// It returns the three commit hashes in order.
func Seed(t *testing.T, r *Repo) (string, string, string) {
	t.Helper()

	r.WriteFile(t, "f.txt", "one\n")
	c1 := r.Commit(t, "add f", "Alice", "alice@example.com", 0)

	r.WriteFile(t, "g.txt", "first\n")
	c2 := r.Commit(t, "add g", "Bob", "bob@example.com", 1)

	r.WriteFile(t, "f.txt", "one\ntwo\n")
	c3 := r.Commit(t, "extend f", "Alice", "alice@example.com", 2)

	return c1, c2, c3
}
