// Package migrations embeds the goose migration scripts for the SQL store
// backends. Postgres and sqlite keep separate scripts because the column
// types differ.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
