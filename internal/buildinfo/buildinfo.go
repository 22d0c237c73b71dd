package buildinfo

import "fmt"

// Name identifies the firmware in logs and the window title.
const Name = "boardloop"

// Version, Commit and Date are set at build time via -ldflags, e.g.
//
//	-X boardloop/internal/buildinfo.Version=v0.3.1
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the release tag, the commit, or "dev", whichever is known first.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	default:
		return "dev"
	}
}

// Banner is the one-line identity shown on the boot screen.
func Banner() string {
	return fmt.Sprintf("%s %s", Name, Short())
}
