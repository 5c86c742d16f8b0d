package version

import (
	"runtime/debug"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
)

// Product is the name reported in the default User-Agent.
const Product = "fetchkit"

// Short returns the version, suffixed with the commit when known.
// The commit falls back to the VCS revision embedded by the Go toolchain.
func Short() string {
	commit := GitCommit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
				}
			}
		}
	}
	if commit == "" {
		return Version
	}
	return Version + "-" + commit
}

// UserAgent returns the default User-Agent value, e.g. "fetchkit/1.2.0".
func UserAgent() string {
	return Product + "/" + Version
}
