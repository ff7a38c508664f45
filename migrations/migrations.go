// Package migrations embeds the schema files for the SQL snapshot stores.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
