package version

import (
	"runtime/debug"
	"testing"
)

func TestFillFromBuildInfo(t *testing.T) {
	t.Parallel()

	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	var info Info
	fillFromBuildInfo(&info, bi)
	if info.Version != "v0.3.1" || info.BuildTime != "2026-10-01T10:00:00Z" {
		t.Fatalf("info: %+v", info)
	}
	if got := info.String(); got != "v0.3.1 (0123456789ab+dirty)" {
		t.Fatalf("string: %q", got)
	}
}

func TestFillKeepsLdflags(t *testing.T) {
	t.Parallel()

	info := Info{Version: "1.0.0", Commit: "abc"}
	fillFromBuildInfo(&info, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
	})
	if info.Version != "1.0.0" || info.Commit != "abc" {
		t.Fatalf("ldflags overwritten: %+v", info)
	}
	if got := info.String(); got != "1.0.0 (abc)" {
		t.Fatalf("string: %q", got)
	}
}
