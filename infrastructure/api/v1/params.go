// Package v1 provides the v1 API routes.
package v1

import (
	"net/http"
	"strconv"
	"strings"
)

// Default and maximum page sizes for the commits endpoint.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// QueryParams holds the query parameters shared by the history endpoints.
type QueryParams struct {
	path           string
	limit          int
	offset         int
	excludeAuthors []string
}

// ParseQuery parses path, limit, offset and exclude_authors from an HTTP
// request. Invalid numbers fall back to the defaults.
func ParseQuery(r *http.Request) QueryParams {
	q := r.URL.Query()

	params := QueryParams{
		path:  q.Get("path"),
		limit: DefaultLimit,
	}

	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			params.limit = n
			if params.limit > MaxLimit {
				params.limit = MaxLimit
			}
		}
	}

	if s := q.Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			params.offset = n
		}
	}

	params.excludeAuthors = ParseAuthorList(q.Get("exclude_authors"))

	return params
}

// Path returns the path filter.
func (p QueryParams) Path() string { return p.path }

// Limit returns the page size.
func (p QueryParams) Limit() int { return p.limit }

// Offset returns the page offset.
func (p QueryParams) Offset() int { return p.offset }

// ExcludeAuthors returns the author emails excluded from results.
func (p QueryParams) ExcludeAuthors() []string { return p.excludeAuthors }

// ParseAuthorList splits a comma-separated list of author emails,
// dropping empty entries.
func ParseAuthorList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			authors = append(authors, trimmed)
		}
	}
	if len(authors) == 0 {
		return nil
	}
	return authors
}
