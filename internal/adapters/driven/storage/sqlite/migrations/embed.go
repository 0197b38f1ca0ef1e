// Package migrations embeds the SQL schema migrations for the SQLite store.
package migrations

import "embed"

// FS holds the migration files embedded at compile time. The store applies
// every *.up.sql newer than the recorded schema version, in order.
//
//go:embed *.sql
var FS embed.FS
