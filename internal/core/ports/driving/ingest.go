package driving

import (
	"context"

	"github.com/allthriveai/showcase/internal/core/domain"
)

// IngestRequest is the trigger payload accepted from a request-routing
// collaborator. The credential is an opaque bearer token scoped to the
// owner's access level on the repository platform; it is never persisted
// or logged.
type IngestRequest struct {
	// OwnerID identifies the owning user.
	OwnerID string

	// OwnerHandle is the owner's public handle (cache keys, project path).
	OwnerHandle string

	// RepositoryURL is the user-supplied repository URL.
	RepositoryURL string

	// Credential is the opaque platform access token.
	Credential string

	// AutoPublish publishes the project immediately on success.
	AutoPublish bool

	// AddToShowcase marks the project for the owner's showcase.
	AddToShowcase bool
}

// IngestResult is the success payload of one ingestion.
type IngestResult struct {
	// ProjectID is the created or updated project identifier.
	ProjectID string

	// Path is the canonical project path.
	Path string

	// Created is true when a new record was created, false on update.
	Created bool
}

// Ingestor runs the full ingestion pipeline: fetch, parse, enrich,
// assemble, upsert. Failures are classified domain errors; enrichment
// degradation is invisible to the caller.
type Ingestor interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}

// Draft is the assembly-only surface, exposed separately so callers can
// produce a domain.ProjectDraft without persisting it.
type Draft interface {
	Draft(ctx context.Context, req IngestRequest) (*domain.ProjectDraft, error)
}
