// Package migrations embeds the SQL schema migrations for both storage
// dialects. Files are named NNN_name.sql and applied in order by the
// migration runner.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
