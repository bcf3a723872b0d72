// Package service implements the history snapshot cache, its per-path
// indices, the diff reconstructor, and the author attribution walker on top
// of the revision store.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/infrastructure/git"
)

// Session owns one open repository and every cache derived from it. The
// store handle is not safe for concurrent use, so all store access is
// serialized behind storeMu; cacheMu guards the snapshot cache and is only
// ever acquired while storeMu is held, keeping rebuild-and-read atomic.
//
// The session supports at most one store operation at a time. Switching
// repositories replaces the whole Session object, so computations already
// in flight finish against the old store and caches.
type Session struct {
	storeMu sync.Mutex
	store   *git.Store

	cacheMu sync.Mutex
	cache   *historyCache

	contextLines int
	logger       *slog.Logger
}

// NewSession opens the repository at path.
func NewSession(path string, contextLines int, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if contextLines < 0 {
		contextLines = change.DefaultContextLines
	}

	store, err := git.Open(path, logger)
	if err != nil {
		return nil, classify(err)
	}

	return &Session{
		store:        store,
		contextLines: contextLines,
		logger:       logger,
	}, nil
}

// Path returns the repository path the session is bound to.
func (s *Session) Path() string {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.store.Path()
}

// withStore runs fn with exclusive access to the store.
func (s *Session) withStore(fn func(store *git.Store) error) error {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return classify(fn(s.store))
}

// withCache runs fn with exclusive access to the store and a validated
// snapshot cache, rebuilding the cache first when the head has moved or no
// snapshot exists yet. A failed rebuild aborts the request; the previous
// cache is discarded rather than served stale.
func (s *Session) withCache(fn func(store *git.Store, cache *historyCache) error) error {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.cache == nil || !s.cache.valid(s.store) {
		s.cache = nil
		start := time.Now()
		cache, err := buildHistoryCache(s.store)
		if err != nil {
			return classify(err)
		}
		s.logger.Info("history snapshot built",
			slog.Int("revisions", len(cache.revisions)),
			slog.Duration("elapsed", time.Since(start)),
		)
		s.cache = cache
	}

	return classify(fn(s.store, s.cache))
}

// CacheStats describes the live snapshot cache.
type CacheStats struct {
	Revisions    int
	IndexedPaths int
	Age          time.Duration
}

// CacheStats reports the current snapshot's size and age. It does not
// trigger a rebuild; without a live snapshot it returns zero stats.
func (s *Session) CacheStats() CacheStats {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.cache == nil {
		return CacheStats{}
	}
	return CacheStats{
		Revisions:    len(s.cache.revisions),
		IndexedPaths: len(s.cache.indices),
		Age:          time.Since(s.cache.takenAt),
	}
}
