// Package reposcope provides a library for inspecting the history of a
// local git repository.
//
// Reposcope opens a repository once, builds an in-memory snapshot of its
// commit history, and answers questions about commits, diffs, branches,
// and per-file author attribution on top of that snapshot. The snapshot
// is rebuilt automatically whenever the repository head moves.
//
// Basic usage:
//
//	client, err := reposcope.New("/path/to/repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Page through history for one path
//	page, err := client.ListRevisions("cmd/main.go", 50, 0, nil)
//
//	// Reconstruct a diff between two revisions
//	result, err := client.Diff("v1.0.0", "HEAD", "")
//
//	// Per-file author attribution over a revision range
//	authors, err := client.AttributeAuthors("v1.0.0", "HEAD", "")
package reposcope

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/reposcope/reposcope/application/service"
	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/domain/history"
)

// Client is the main entry point for the reposcope library. It wraps a
// session bound to one repository; Switch replaces the session wholesale
// so in-flight calls finish against the repository they started with.
type Client struct {
	mu      sync.RWMutex
	session *service.Session

	contextLines int
	logger       *slog.Logger
}

// New opens the repository at path and returns a Client for it.
func New(path string, opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	session, err := service.NewSession(path, cfg.contextLines, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Client{
		session:      session,
		contextLines: cfg.contextLines,
		logger:       cfg.logger,
	}, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Path returns the filesystem path of the repository currently served.
func (c *Client) Path() string {
	return c.current().Path()
}

// Switch opens the repository at path and replaces the current session.
// The current repository stays in place when the new one fails to open.
func (c *Client) Switch(path string) error {
	session, err := service.NewSession(path, c.contextLines, c.logger)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	c.mu.Lock()
	old := c.session
	c.session = session
	c.mu.Unlock()

	c.logger.Info("repository switched", "from", old.Path(), "to", session.Path())
	return nil
}

func (c *Client) current() *service.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Info describes the repository currently served.
func (c *Client) Info() (history.RepositoryInfo, error) {
	return c.current().Info()
}

// ListRevisions pages through the history of path, newest first. An empty
// path selects the whole repository.
func (c *Client) ListRevisions(path string, limit, offset int, excludeAuthors []string) (history.Page, error) {
	return c.current().ListRevisions(path, limit, offset, excludeAuthors)
}

// Diff reconstructs the changes between two revisions. An empty from
// diffs against the first parent of to.
func (c *Client) Diff(from, to, path string) (change.Result, error) {
	return c.current().Diff(from, to, path)
}

// WorkingDiff reconstructs the uncommitted changes against head.
func (c *Client) WorkingDiff(path string) (change.Result, error) {
	return c.current().WorkingDiff(path)
}

// AttributeAuthors reports per-file author activity for the revisions
// reachable from to but not from from.
func (c *Client) AttributeAuthors(from, to, path string) (map[string][]change.AuthorContribution, error) {
	return c.current().AttributeAuthors(from, to, path)
}

// Resolve maps a revision expression to the revision it names.
func (c *Client) Resolve(id string) (history.Revision, error) {
	return c.current().Resolve(id)
}

// Tree lists one directory of the head tree, directories first. When
// includeLast is set, each entry carries the newest revision touching it.
func (c *Client) Tree(path string, includeLast bool) ([]history.TreeEntry, error) {
	return c.current().Tree(path, includeLast)
}

// FullTree returns the entire head tree as a recursive node structure.
func (c *Client) FullTree() ([]history.TreeNode, error) {
	return c.current().FullTree()
}

// FileContent reads one file of the head tree as text.
func (c *Client) FileContent(path string) (string, error) {
	return c.current().FileContent(path)
}

// DirectoryInfo aggregates counts, size, contributors, and first and
// latest revisions for one directory of the head tree.
func (c *Client) DirectoryInfo(path string) (history.DirectoryInfo, error) {
	return c.current().DirectoryInfo(path)
}

// Branches lists local and remote branches, local first.
func (c *Client) Branches() ([]history.Branch, error) {
	return c.current().Branches()
}

// Checkout switches the worktree to branch. It refuses to run over
// uncommitted changes.
func (c *Client) Checkout(branch string) error {
	return c.current().Checkout(branch)
}

// Blame attributes every line of path at the given revision. An empty
// revision means head.
func (c *Client) Blame(path, revision string) ([]change.BlameLine, error) {
	return c.current().Blame(path, revision)
}

// WorkingStatus counts the changed worktree files under path. An empty
// path counts the whole worktree.
func (c *Client) WorkingStatus(path string) (int, error) {
	return c.current().WorkingStatus(path)
}

// CacheStats reports the state of the history snapshot cache.
func (c *Client) CacheStats() service.CacheStats {
	return c.current().CacheStats()
}
