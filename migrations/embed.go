// Package migrations embeds the SQL schema files for the local settings database.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
