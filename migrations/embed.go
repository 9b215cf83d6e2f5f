// Package migrations carries the versioned schema files so binaries do not
// depend on a migrations directory next to them.
package migrations

import "embed"

//go:embed V*__*.sql
var FS embed.FS
