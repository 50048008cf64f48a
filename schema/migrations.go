// Package schema contains the embedded Postgres migrations for the tasks table.
package schema

import "embed"

// MigrationsFS contains all SQL migration files from pgmigrations directory.
// Files are applied in name order, so prefix them with a sequence number.
//
//go:embed pgmigrations/*.sql
var MigrationsFS embed.FS
