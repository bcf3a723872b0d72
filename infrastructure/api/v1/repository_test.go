package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope"
	"github.com/reposcope/reposcope/infrastructure/api/v1/dto"
	"github.com/reposcope/reposcope/internal/testrepo"
)

func newTestRouter(t *testing.T, path string) *RepositoryRouter {
	t.Helper()

	client, err := reposcope.New(path, reposcope.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return NewRepositoryRouter(client)
}

func doRequest(t *testing.T, rt *RepositoryRouter, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	rt.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestInfoEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	_, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	info := decode[dto.RepositoryResponse](t, rec)
	assert.Equal(t, "fixture", info.Name)
	assert.Equal(t, "master", info.HeadBranch)
	assert.False(t, info.IsBare)
	require.NotNil(t, info.Head)
	assert.Equal(t, c3, info.Head.OID)
	assert.Zero(t, info.ChangedFiles)
}

func TestInfoEndpoint_CountsChangedFiles(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.WriteFile(t, "f.txt", "dirty\n")

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	info := decode[dto.RepositoryResponse](t, rec)
	assert.Equal(t, 1, info.ChangedFiles)
}

func TestListCommitsEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/commits", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[dto.CommitListResponse](t, rec)
	require.Len(t, page.Commits, 3)
	assert.Equal(t, c3, page.Commits[0].OID)
	assert.Equal(t, c1, page.Commits[2].OID)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 3, page.FilteredTotal)
	assert.False(t, page.HasMore)
	require.Len(t, page.Contributors, 2)
	assert.Equal(t, "alice@example.com", page.Contributors[0].Email)
	assert.Equal(t, 2, page.Contributors[0].Commits)

	// Root commit still serializes parents as an empty array.
	assert.NotNil(t, page.Commits[2].Parents)
	assert.Zero(t, page.Commits[2].ParentCount)
}

func TestListCommitsEndpoint_PathAndPaging(t *testing.T) {
	repo := testrepo.Init(t)
	_, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/commits?path=f.txt&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[dto.CommitListResponse](t, rec)
	require.Len(t, page.Commits, 1)
	assert.Equal(t, c3, page.Commits[0].OID)
	assert.Equal(t, 2, page.FilteredTotal)
	assert.True(t, page.HasMore)

	rec = doRequest(t, rt, http.MethodGet, "/commits?path=f.txt&limit=1&offset=1", nil)
	page = decode[dto.CommitListResponse](t, rec)
	require.Len(t, page.Commits, 1)
	assert.False(t, page.HasMore)
}

func TestListCommitsEndpoint_ExcludeAuthors(t *testing.T) {
	repo := testrepo.Init(t)
	_, c2, _ := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/commits?exclude_authors=alice@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[dto.CommitListResponse](t, rec)
	require.Len(t, page.Commits, 1)
	assert.Equal(t, c2, page.Commits[0].OID)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.FilteredTotal)
	// Contributor tallies ignore the filter.
	assert.Len(t, page.Contributors, 2)
}

func TestDiffEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/diff?from="+c1+"&to="+c3, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	diff := decode[dto.DiffResponse](t, rec)
	assert.Equal(t, c1, diff.FromCommit)
	assert.Equal(t, c3, diff.ToCommit)
	require.Len(t, diff.Files, 2)
	assert.Equal(t, 2, diff.TotalFiles)
	assert.Equal(t, 2, diff.Stats.Insertions)
	assert.NotEmpty(t, diff.Files[0].Hunks)
}

func TestDiffEndpoint_DefaultsToHead(t *testing.T) {
	repo := testrepo.Init(t)
	_, c2, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/diff", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	diff := decode[dto.DiffResponse](t, rec)
	assert.Equal(t, c2, diff.FromCommit)
	assert.Equal(t, c3, diff.ToCommit)
	require.Len(t, diff.Files, 1)
	assert.Equal(t, "f.txt", diff.Files[0].NewPath)
	assert.Equal(t, "alice@example.com", diff.Files[0].BiggestChangeAuthor)
}

func TestDiffEndpoint_ExcludeAuthorsDropsFiles(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	target := "/diff?from=" + c1 + "&to=" + c3 + "&exclude_authors=alice@example.com"
	rec := doRequest(t, rt, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	diff := decode[dto.DiffResponse](t, rec)
	require.Len(t, diff.Files, 1)
	assert.Equal(t, "g.txt", diff.Files[0].NewPath)
	assert.Equal(t, 2, diff.TotalFiles)
	assert.Equal(t, 1, diff.FilteredFiles)
}

func TestDiffEndpoint_UnknownRevision(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/diff?to=definitely-not-a-ref", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Contains(t, body["error"], "not found")
}

func TestWorkingDiffEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	_, _, c3 := testrepo.Seed(t, repo)
	repo.WriteFile(t, "f.txt", "one\ntwo\nthree\n")

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/working-diff", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	diff := decode[dto.DiffResponse](t, rec)
	assert.Equal(t, c3, diff.FromCommit)
	assert.Equal(t, "WORKING_TREE", diff.ToCommit)
	require.Len(t, diff.Files, 1)
	assert.Equal(t, "modified", diff.Files[0].Status)
}

func TestAttributionEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	_, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/attribution", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	attr := decode[dto.AttributionResponse](t, rec)
	// The default range echoes back as the resolved head hash, not "HEAD".
	assert.Equal(t, c3, attr.ToCommit)
	assert.Empty(t, attr.FromCommit)
	require.Len(t, attr.Files, 2)
	require.Len(t, attr.Files["f.txt"], 1)
	assert.Equal(t, "alice@example.com", attr.Files["f.txt"][0].Email)
	assert.Equal(t, 2, attr.Files["f.txt"][0].Commits)
}

func TestAttributionEndpoint_ResolvesRevisionExpressions(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/attribution?from="+c1[:8]+"&to=HEAD", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	attr := decode[dto.AttributionResponse](t, rec)
	assert.Equal(t, c1, attr.FromCommit)
	assert.Equal(t, c3, attr.ToCommit)
}

func TestBlameEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, c3 := testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/blame?path=f.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	blame := decode[dto.BlameResponse](t, rec)
	assert.Equal(t, "f.txt", blame.Path)
	assert.Equal(t, "HEAD", blame.Commit)
	require.Len(t, blame.Lines, 2)
	assert.Equal(t, c1, blame.Lines[0].CommitOID)
	assert.Equal(t, c3, blame.Lines[1].CommitOID)
}

func TestBlameEndpoint_MissingPath(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/blame", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBranchesEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.Checkout(t, "master")

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/branches", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[dto.BranchListResponse](t, rec)
	require.Len(t, list.Branches, 2)
	assert.Equal(t, "master", list.Branches[0].Name)
	assert.True(t, list.Branches[0].IsCurrent)
	assert.Equal(t, "dev", list.Branches[1].Name)
}

func TestCheckoutEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.Checkout(t, "master")

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodPost, "/checkout", strings.NewReader(`{"branch":"dev"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[dto.CheckoutResponse](t, rec)
	assert.Equal(t, "dev", resp.Branch)
}

func TestCheckoutEndpoint_Validation(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodPost, "/checkout", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, rt, http.MethodPost, "/checkout", strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, rt, http.MethodPost, "/checkout", strings.NewReader(`{"branch":"missing"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutEndpoint_DirtyWorktree(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.Branch(t, "dev")
	repo.Checkout(t, "master")
	repo.WriteFile(t, "f.txt", "local edit\n")

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodPost, "/checkout", strings.NewReader(`{"branch":"dev"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSwitchEndpoint(t *testing.T) {
	first := testrepo.Init(t)
	testrepo.Seed(t, first)

	second := testrepo.Init(t)
	second.WriteFile(t, "other.txt", "other\n")
	head := second.Commit(t, "other repo", "Carol", "carol@example.com", 0)

	rt := newTestRouter(t, first.Path)

	rec := doRequest(t, rt, http.MethodPost, "/switch", strings.NewReader(`{"path":"`+second.Path+`"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	info := decode[dto.RepositoryResponse](t, rec)
	assert.Equal(t, second.Path, info.Path)
	require.NotNil(t, info.Head)
	assert.Equal(t, head, info.Head.OID)
}

func TestSwitchEndpoint_Validation(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodPost, "/switch", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, rt, http.MethodPost, "/switch", strings.NewReader(`{"path":"`+t.TempDir()+`"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A failed switch keeps serving the original repository.
	rec = doRequest(t, rt, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[dto.RepositoryResponse](t, rec)
	assert.Equal(t, repo.Path, info.Path)
}

func TestTreeEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	_, _, c3 := testrepo.Seed(t, repo)
	repo.WriteFile(t, "pkg/a.txt", "alpha\n")
	c4 := repo.Commit(t, "add pkg", "Carol", "carol@example.com", 10)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	tree := decode[dto.TreeResponse](t, rec)
	require.Len(t, tree.Entries, 3)

	assert.Equal(t, "pkg", tree.Entries[0].Name)
	assert.Equal(t, "directory", tree.Entries[0].EntryType)
	assert.Nil(t, tree.Entries[0].Size)
	require.NotNil(t, tree.Entries[0].LastCommit)
	assert.Equal(t, c4, tree.Entries[0].LastCommit.OID)

	assert.Equal(t, "f.txt", tree.Entries[1].Name)
	assert.Equal(t, "file", tree.Entries[1].EntryType)
	require.NotNil(t, tree.Entries[1].Size)
	assert.Equal(t, int64(len("one\ntwo\n")), *tree.Entries[1].Size)
	require.NotNil(t, tree.Entries[1].LastCommit)
	assert.Equal(t, c3, tree.Entries[1].LastCommit.OID)
}

func TestTreeEndpoint_WithoutLastCommits(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/tree?include_last_commit=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	tree := decode[dto.TreeResponse](t, rec)
	for _, e := range tree.Entries {
		assert.Nil(t, e.LastCommit)
	}
}

func TestTreeEndpoint_Errors(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/tree?path=missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, rt, http.MethodGet, "/tree?path=f.txt", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullTreeEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.WriteFile(t, "pkg/sub/b.txt", "beta\n")
	repo.Commit(t, "nest", "Carol", "carol@example.com", 10)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/tree/full", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	tree := decode[dto.FullTreeResponse](t, rec)
	require.Len(t, tree.Entries, 3)
	assert.Equal(t, "pkg", tree.Entries[0].Name)
	require.Len(t, tree.Entries[0].Children, 1)
	assert.Equal(t, "pkg/sub", tree.Entries[0].Children[0].Path)
	require.Len(t, tree.Entries[0].Children[0].Children, 1)
}

func TestFileEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/file?path=f.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	file := decode[dto.FileContentResponse](t, rec)
	assert.Equal(t, "f.txt", file.Path)
	assert.Equal(t, "one\ntwo\n", file.Content)
}

func TestFileEndpoint_Errors(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)
	repo.WriteFile(t, "pkg/a.txt", "alpha\n")
	repo.Commit(t, "add pkg", "Carol", "carol@example.com", 10)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/file", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, rt, http.MethodGet, "/file?path=missing.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, rt, http.MethodGet, "/file?path=pkg", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryInfoEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	c1, _, _ := testrepo.Seed(t, repo)
	repo.WriteFile(t, "pkg/a.txt", "alpha\n")
	c4 := repo.Commit(t, "add pkg", "Carol", "carol@example.com", 10)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/directory-info", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	info := decode[dto.DirectoryInfoResponse](t, rec)
	assert.Equal(t, 3, info.FileCount)
	assert.Equal(t, 1, info.DirectoryCount)
	require.NotNil(t, info.FirstCommit)
	assert.Equal(t, c1, info.FirstCommit.OID)
	require.NotNil(t, info.LatestCommit)
	assert.Equal(t, c4, info.LatestCommit.OID)
	require.NotEmpty(t, info.Contributors)
	assert.Equal(t, "alice@example.com", info.Contributors[0].Email)

	rec = doRequest(t, rt, http.MethodGet, "/directory-info?path=pkg", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info = decode[dto.DirectoryInfoResponse](t, rec)
	assert.Equal(t, "pkg", info.Path)
	assert.Equal(t, 1, info.FileCount)
	assert.Zero(t, info.DirectoryCount)
}

func TestCacheEndpoint(t *testing.T) {
	repo := testrepo.Init(t)
	testrepo.Seed(t, repo)

	rt := newTestRouter(t, repo.Path)

	rec := doRequest(t, rt, http.MethodGet, "/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[dto.CacheResponse](t, rec)
	assert.Zero(t, stats.Revisions)

	doRequest(t, rt, http.MethodGet, "/commits", nil)

	rec = doRequest(t, rt, http.MethodGet, "/cache", nil)
	stats = decode[dto.CacheResponse](t, rec)
	assert.Equal(t, 3, stats.Revisions)
	assert.Equal(t, 1, stats.IndexedPaths)
}
