// Package buildinfo carries the version identifiers stamped in at link
// time via -ldflags.
package buildinfo

var (
	// Version is the release tag, "dev" for unstamped builds.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
