// Package version holds build-time version information.
package version

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)
