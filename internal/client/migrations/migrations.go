// Package migrations embeds the journal database schema, applied with goose
// at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
