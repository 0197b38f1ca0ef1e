// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RepositoryService: Fetches repository metadata, readme, tree and
//     dependency manifests from the hosting platform
//   - ProjectStore: Project record persistence
//   - CacheStore: Cached project-listing invalidation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text completion for diagram synthesis and metadata
//     enrichment. Without it, enrichment uses deterministic fallbacks only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
