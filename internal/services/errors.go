package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed identifiers or slugs rejected before any
	// network or disk I/O.
	ErrValidation = errors.New("validation error")
	// ErrAuthUnavailable marks missing or expired session credentials. It
	// escalates: once the session is gone every subsequent item fails too.
	ErrAuthUnavailable = errors.New("auth unavailable")
	// ErrFetchFailed marks a failure in the external fetch collaborator.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMuxFailed marks a failure in the external mux collaborator.
	ErrMuxFailed = errors.New("mux failed")
	// ErrTruncatedOutput marks a muxed file that failed the quick size check
	// even though the external steps reported success.
	ErrTruncatedOutput = errors.New("truncated output")
	// ErrRenameCollision marks a rename whose destination already exists.
	ErrRenameCollision = errors.New("rename collision")
	// ErrStorageUnavailable marks a history ledger that cannot be opened or
	// written. Fatal for the whole run, unlike per-item failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound marks catalog lookups with no matching content.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFetchFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must stop a batch run instead of being
// recorded in the summary and skipped past. Storage and auth failures
// guarantee every later item fails, so continuing would only add noise.
func Fatal(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrAuthUnavailable)
}

// Reason returns a short stable label for a per-item failure, used in batch
// summaries and progress events.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuthUnavailable):
		return "auth-unavailable"
	case errors.Is(err, ErrTruncatedOutput):
		return "truncated-output"
	case errors.Is(err, ErrMuxFailed):
		return "mux-failed"
	case errors.Is(err, ErrFetchFailed):
		return "fetch-failed"
	case errors.Is(err, ErrRenameCollision):
		return "rename-collision"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage-unavailable"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	default:
		return "error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
