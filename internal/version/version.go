// Package version carries the build identity stamped into binaries.
package version

// Overridden at release time via -ldflags "-X ...".
var (
	// Version is the release version of the wrap studio.
	Version = "0.1.0"

	// BuildTime is when the binary was produced, UTC.
	BuildTime = "unknown"

	// GitCommit is the source revision the binary was built from.
	GitCommit = "unknown"
)
