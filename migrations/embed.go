// Package migrations embeds SQL migration files for database schema management.
// Each supported store provider has its own directory of migrations.
package migrations

import "embed"

// FS holds the embedded SQL migration files, one directory per provider.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
