// Package migrations embeds the SQL migration scripts shipped with
// nodecg so they are available without the files on disk.
package migrations

import (
	"embed"

	"github.com/nodecg/nodecg/internal/migration"
)

//go:embed *.sql
var migrationsFS embed.FS

// Globs are the discovery patterns applied to the embedded scripts.
var Globs = []string{"**/*.sql"}

// Source returns the embedded migration scripts.
func Source() migration.Source {
	return migration.Source{FS: migrationsFS, Globs: Globs}
}
