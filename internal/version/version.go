// Package version exposes build metadata stamped at link time.
package version

import "fmt"

var (
	// Version is the semantic release version.
	Version = "dev"
	// Commit is the short git commit hash of the build.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the full version line shown by the version command.
func String() string {
	return fmt.Sprintf("fraudshield %s (commit %s, built %s)", Version, Commit, Date)
}
