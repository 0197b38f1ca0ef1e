package driven

import (
	"context"

	"github.com/allthriveai/showcase/internal/core/domain"
)

// ProjectStore persists project records.
//
// Implementations must enforce UNIQUE(owner_id, slug) and surface a
// violation as domain.ErrUpsertConflict so the upsert service can re-check
// and retry once.
type ProjectStore interface {
	// Create inserts a new project record.
	Create(ctx context.Context, project *domain.Project) error

	// Update rewrites an existing project record by ID.
	Update(ctx context.Context, project *domain.Project) error

	// GetBySource returns the owner's project for a source repository URL,
	// or domain.ErrNotFound. This is the idempotency lookup: re-ingesting
	// the same source updates in place.
	GetBySource(ctx context.Context, ownerID, sourceURL string) (*domain.Project, error)

	// SlugTaken reports whether the owner already has a project under slug.
	SlugTaken(ctx context.Context, ownerID, slug string) (bool, error)

	// ListByOwner returns all of an owner's projects, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
}
