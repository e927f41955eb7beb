package appfs

import "embed"

// FS embeds non-Go assets needed at runtime: database migrations, email
// templates and the common-password denylist.
//
//go:embed migrations templates assets
var FS embed.FS
