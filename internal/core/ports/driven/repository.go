package driven

import (
	"context"

	"github.com/allthriveai/showcase/internal/core/domain"
)

// RepositoryService fetches everything the pipeline needs from the
// repository hosting platform. One instance is scoped to one credential;
// instances hold no state shared across concurrent ingestions beyond their
// own rate-limit accounting.
type RepositoryService interface {
	// Snapshot fetches repository metadata, then readme, tree and
	// dependency manifests concurrently, and derives the tech stack.
	//
	// A missing readme, empty tree or missing manifests are not errors.
	// Snapshot fails only when the repository itself is inaccessible
	// (domain.ErrRepoInaccessible), the API quota is spent
	// (domain.ErrRateLimitExhausted), or transient retries were exhausted
	// (domain.ErrFetchFailed).
	Snapshot(ctx context.Context, ref domain.RepoRef) (*domain.RepositorySnapshot, error)
}
