// Package migrations embeds the SQL schema migrations applied at startup.
package migrations

import "embed"

// Files holds the ordered *.sql migration files. Names sort
// lexicographically in application order.
//
//go:embed *.sql
var Files embed.FS
