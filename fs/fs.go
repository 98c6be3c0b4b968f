package appfs

import "embed"

// MigrationsDir is the directory of the SQL migrations inside FS.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var FS embed.FS
