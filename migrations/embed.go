// Package migrations holds the versioned SQL schema applied by the migrate command.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
