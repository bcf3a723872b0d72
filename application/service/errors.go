package service

import (
	"errors"
	"fmt"

	"github.com/reposcope/reposcope/infrastructure/git"
)

// Error taxonomy. Every error leaving the service layer matches exactly one
// of these with errors.Is.
var (
	// ErrNotFound indicates a repository, path, or revision did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed identifier or a path resolving
	// to the wrong kind of object.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a checkout refused because of uncommitted changes.
	ErrConflict = errors.New("conflict")

	// ErrInternal covers store failures with no more specific classification,
	// including text decoding failures and lock-state corruption.
	ErrInternal = errors.New("internal error")
)

// classify maps store-layer errors onto the taxonomy. Already-classified
// errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrInternal) {
		return err
	}

	var dirty *git.DirtyWorktreeError
	switch {
	case errors.As(err, &dirty):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, git.ErrRepositoryNotFound),
		errors.Is(err, git.ErrRevisionNotFound),
		errors.Is(err, git.ErrBranchNotFound),
		errors.Is(err, git.ErrPathNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, git.ErrInvalidPath):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
