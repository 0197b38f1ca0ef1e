// Package sqlite provides SQLite-backed persistence for project records.
//
// A single Store owns the database connection and runs embedded schema
// migrations on startup. The ProjectStore accessor returns the
// driven.ProjectStore implementation used by the upsert service.
//
// The database runs in WAL mode with a busy timeout so concurrent
// ingestions for different repositories do not trip over each other.
package sqlite
