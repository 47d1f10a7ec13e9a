// Package appfs embeds files needed at runtime so the binary is self-contained.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
