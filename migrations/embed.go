package migrations

import "embed"

// Files holds the forward-only SQL migrations for the journal database.
//
//go:embed *.sql
var Files embed.FS
