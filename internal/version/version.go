package version

import "fmt"

// Build metadata, set with -ldflags "-X .../internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// String renders the build for the version command and startup logs.
func String() string {
	s := fmt.Sprintf("%s (commit %s", Version, Commit)
	if Date != "" {
		s += ", built " + Date
	}
	if Dirty == "true" {
		s += ", dirty"
	}
	return s + ")"
}
