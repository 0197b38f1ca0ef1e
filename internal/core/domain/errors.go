package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRepoURL indicates a repository URL could not be normalised
	// into an owner/name reference.
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// Fetch Errors.

	// ErrRepoInaccessible indicates the repository itself was not found or
	// the credential has no access to it. Fatal for the ingestion.
	ErrRepoInaccessible = errors.New("repository not found or not accessible")

	// ErrRateLimitExhausted indicates the platform API quota is spent.
	// Fatal for the current ingestion and distinct from transient failures
	// so callers can back off globally rather than per-request.
	ErrRateLimitExhausted = errors.New("API rate limit exhausted")

	// ErrFetchFailed indicates a required fetch kept failing transiently
	// until the retry budget was exhausted.
	ErrFetchFailed = errors.New("repository fetch failed after retries")

	// Enrichment Errors.

	// ErrEnrichmentUnavailable indicates the LLM provider could not be
	// reached or returned unusable output. Never propagated out of the
	// enrichment layer; callers always receive fallback data instead.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// Persistence Errors.

	// ErrUpsertConflict indicates a concurrent writer took the slug between
	// the uniqueness check and the write. Retried once at the upsert layer.
	ErrUpsertConflict = errors.New("project upsert conflict")

	// ErrUpsertFailed indicates the project write failed even after the
	// conflict retry. No partial record is left visible.
	ErrUpsertFailed = errors.New("project upsert failed")
)
