// Package domain defines the core business entities for the showcase
// ingestion pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RepoRef: A normalised reference to an external repository
//   - RepositorySnapshot: Everything fetched from the repository platform
//   - ContentBlock: One typed, ordered unit of a synthesised document
//   - ContentDocument: The ordered block sequence plus hero/diagram state
//   - Enrichment: AI-assisted metadata, always available via fallback
//   - ProjectDraft: The assembled value handed to the upsert service
//   - Project: The persisted project record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
