// Package services implements the core business logic of the ingestion
// pipeline: the stage-by-stage orchestrator, the AI-assisted diagram
// synthesizer and metadata enricher with their deterministic fallbacks,
// the idempotent project upsert with cache invalidation, and the bounded
// worker pool for batch ingestion.
//
// Services depend only on domain types and ports. All infrastructure
// access goes through the driven port interfaces.
package services
