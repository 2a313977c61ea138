// Package item embeds the SQL that creates the items table.
package item

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
