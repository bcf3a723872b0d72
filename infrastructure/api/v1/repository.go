package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reposcope/reposcope"
	"github.com/reposcope/reposcope/application/service"
	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/infrastructure/api/middleware"
	"github.com/reposcope/reposcope/infrastructure/api/v1/dto"
)

// RepositoryRouter handles the repository API endpoints.
type RepositoryRouter struct {
	client *reposcope.Client
	logger *slog.Logger
}

// NewRepositoryRouter creates a new RepositoryRouter.
func NewRepositoryRouter(client *reposcope.Client) *RepositoryRouter {
	return &RepositoryRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for repository endpoints.
func (rt *RepositoryRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", rt.Info)
	router.Get("/commits", rt.ListCommits)
	router.Get("/diff", rt.Diff)
	router.Get("/working-diff", rt.WorkingDiff)
	router.Get("/attribution", rt.Attribution)
	router.Get("/tree", rt.Tree)
	router.Get("/tree/full", rt.FullTree)
	router.Get("/file", rt.File)
	router.Get("/directory-info", rt.DirectoryInfo)
	router.Get("/blame", rt.Blame)
	router.Get("/branches", rt.Branches)
	router.Post("/checkout", rt.Checkout)
	router.Post("/switch", rt.Switch)
	router.Get("/cache", rt.Cache)

	return router
}

// Info handles GET /api/v1/repository.
func (rt *RepositoryRouter) Info(w http.ResponseWriter, req *http.Request) {
	info, err := rt.client.Info()
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	changed := 0
	if !info.Bare {
		if changed, err = rt.client.WorkingStatus(""); err != nil {
			middleware.WriteError(w, req, err, rt.logger)
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, infoToDTO(info, changed))
}

// ListCommits handles GET /api/v1/repository/commits.
func (rt *RepositoryRouter) ListCommits(w http.ResponseWriter, req *http.Request) {
	params := ParseQuery(req)

	page, err := rt.client.ListRevisions(params.Path(), params.Limit(), params.Offset(), params.ExcludeAuthors())
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, pageToDTO(page))
}

// Diff handles GET /api/v1/repository/diff.
func (rt *RepositoryRouter) Diff(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	from := q.Get("from")
	to := q.Get("to")
	if to == "" {
		to = "HEAD"
	}

	result, err := rt.client.Diff(from, to, q.Get("path"))
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	if excluded := ParseAuthorList(q.Get("exclude_authors")); len(excluded) > 0 {
		result = dropExcludedFiles(result, excluded)
	}

	middleware.WriteJSON(w, http.StatusOK, diffToDTO(result))
}

// WorkingDiff handles GET /api/v1/repository/working-diff.
func (rt *RepositoryRouter) WorkingDiff(w http.ResponseWriter, req *http.Request) {
	result, err := rt.client.WorkingDiff(req.URL.Query().Get("path"))
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, diffToDTO(result))
}

// Attribution handles GET /api/v1/repository/attribution.
func (rt *RepositoryRouter) Attribution(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	from := q.Get("from")
	to := q.Get("to")
	if to == "" {
		to = "HEAD"
	}
	path := q.Get("path")

	toRev, err := rt.client.Resolve(to)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	var fromID string
	if from != "" {
		fromRev, err := rt.client.Resolve(from)
		if err != nil {
			middleware.WriteError(w, req, err, rt.logger)
			return
		}
		fromID = fromRev.ID
	}

	files, err := rt.client.AttributeAuthors(from, to, path)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	response := dto.AttributionResponse{
		FromCommit: fromID,
		ToCommit:   toRev.ID,
		Path:       path,
		Files:      make(map[string][]dto.AuthorContributionResponse, len(files)),
	}
	for p, contributions := range files {
		response.Files[p] = contributionsToDTO(contributions)
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

// Tree handles GET /api/v1/repository/tree. Last-commit lookup is on by
// default and disabled with include_last_commit=false.
func (rt *RepositoryRouter) Tree(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	path := q.Get("path")
	includeLast := q.Get("include_last_commit") != "false"

	entries, err := rt.client.Tree(path, includeLast)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, treeToDTO(path, entries))
}

// FullTree handles GET /api/v1/repository/tree/full.
func (rt *RepositoryRouter) FullTree(w http.ResponseWriter, req *http.Request) {
	nodes, err := rt.client.FullTree()
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, fullTreeToDTO(nodes))
}

// File handles GET /api/v1/repository/file.
func (rt *RepositoryRouter) File(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if path == "" {
		err := fmt.Errorf("%w: missing path parameter", service.ErrInvalidInput)
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	content, err := rt.client.FileContent(path)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.FileContentResponse{Path: path, Content: content})
}

// DirectoryInfo handles GET /api/v1/repository/directory-info.
func (rt *RepositoryRouter) DirectoryInfo(w http.ResponseWriter, req *http.Request) {
	info, err := rt.client.DirectoryInfo(req.URL.Query().Get("path"))
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, directoryInfoToDTO(info))
}

// Blame handles GET /api/v1/repository/blame.
func (rt *RepositoryRouter) Blame(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	path := q.Get("path")
	if path == "" {
		err := fmt.Errorf("%w: missing path parameter", service.ErrInvalidInput)
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	commit := q.Get("commit")

	lines, err := rt.client.Blame(path, commit)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	if commit == "" {
		commit = "HEAD"
	}
	middleware.WriteJSON(w, http.StatusOK, blameToDTO(path, commit, lines))
}

// Branches handles GET /api/v1/repository/branches.
func (rt *RepositoryRouter) Branches(w http.ResponseWriter, req *http.Request) {
	branches, err := rt.client.Branches()
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, branchesToDTO(branches))
}

// Checkout handles POST /api/v1/repository/checkout.
func (rt *RepositoryRouter) Checkout(w http.ResponseWriter, req *http.Request) {
	var body dto.CheckoutRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Branch == "" {
		err := fmt.Errorf("%w: missing branch in request body", service.ErrInvalidInput)
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	if err := rt.client.Checkout(body.Branch); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.CheckoutResponse{Branch: body.Branch})
}

// Switch handles POST /api/v1/repository/switch.
func (rt *RepositoryRouter) Switch(w http.ResponseWriter, req *http.Request) {
	var body dto.SwitchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Path == "" {
		err := fmt.Errorf("%w: missing path in request body", service.ErrInvalidInput)
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	if err := rt.client.Switch(body.Path); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	rt.Info(w, req)
}

// Cache handles GET /api/v1/repository/cache.
func (rt *RepositoryRouter) Cache(w http.ResponseWriter, req *http.Request) {
	stats := rt.client.CacheStats()

	middleware.WriteJSON(w, http.StatusOK, dto.CacheResponse{
		Revisions:    stats.Revisions,
		IndexedPaths: stats.IndexedPaths,
		AgeSeconds:   stats.Age.Seconds(),
	})
}

// dropExcludedFiles removes diff files whose authors are all excluded.
// Files without attribution are always kept.
func dropExcludedFiles(result change.Result, excluded []string) change.Result {
	set := make(map[string]struct{}, len(excluded))
	for _, email := range excluded {
		set[email] = struct{}{}
	}

	kept := make([]change.FileDelta, 0, len(result.Files))
	for _, f := range result.Files {
		if len(f.Authors) == 0 {
			kept = append(kept, f)
			continue
		}
		for _, a := range f.Authors {
			if _, ok := set[a.Email]; !ok {
				kept = append(kept, f)
				break
			}
		}
	}

	result.Files = kept
	result.FilteredFiles = len(kept)
	return result
}
