// Package version reports which build of xmlconfig is running.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Release builds stamp these with:
//
//	go build -ldflags="-X github.com/muurk/xmlconfig/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/xmlconfig/internal/version.Commit=abc123"
var (
	// Version is the release tag, or dev-YYYYMMDD for local builds
	Version = ""
	// Commit is the short revision the binary was built from
	Commit = ""
)

const shortRevision = 7

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v, c := fromBuildInfo(info)
			if Version == "" {
				Version = v
			}
			if Commit == "" {
				Commit = c
			}
		}
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo derives version and commit from what the toolchain recorded.
// A module version wins (go install module@vX.Y.Z); otherwise the VCS commit
// date gives a dev version. Either result may be empty.
func fromBuildInfo(info *debug.BuildInfo) (version, commit string) {
	vcs := make(map[string]string)
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; rev != "" {
		commit = rev[:min(len(rev), shortRevision)]
		if vcs["vcs.modified"] == "true" {
			commit += "-dirty"
		}
	}

	switch {
	case info.Main.Version != "" && info.Main.Version != "(devel)":
		version = info.Main.Version
	case vcs["vcs.time"] != "":
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			version = "dev-" + t.Format("20060102")
		}
	}
	return version, commit
}

// Full returns "v1.2.3 (commit: abc1234)" for the version command
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
