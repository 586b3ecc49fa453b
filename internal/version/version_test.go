package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestVersionPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version) || !strings.Contains(full, "commit: "+Commit) {
		t.Errorf("Full() = %q, want version and commit", full)
	}
}

func TestFromBuildInfo(t *testing.T) {
	vcs := func(kv ...string) []debug.BuildSetting {
		var out []debug.BuildSetting
		for i := 0; i < len(kv); i += 2 {
			out = append(out, debug.BuildSetting{Key: kv[i], Value: kv[i+1]})
		}
		return out
	}

	tests := []struct {
		name        string
		main        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "module version",
			main:        "v1.4.0",
			settings:    vcs("vcs.revision", "0123456789abcdef"),
			wantVersion: "v1.4.0",
			wantCommit:  "0123456",
		},
		{
			name:        "devel build uses commit date",
			main:        "(devel)",
			settings:    vcs("vcs.revision", "abc", "vcs.time", "2025-11-25T10:30:45Z", "vcs.modified", "true"),
			wantVersion: "dev-20251125",
			wantCommit:  "abc-dirty",
		},
		{
			name: "nothing recorded",
			main: "(devel)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &debug.BuildInfo{Settings: tt.settings}
			info.Main.Version = tt.main

			version, commit := fromBuildInfo(info)
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if commit != tt.wantCommit {
				t.Errorf("commit = %q, want %q", commit, tt.wantCommit)
			}
		})
	}
}
