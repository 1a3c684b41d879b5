package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func stub(t *testing.T, version, commit, branch, buildTime string, settings ...debug.BuildSetting) {
	t.Helper()
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion, origRead :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime, GoVersion, readBuildInfo =
			origVersion, origCommit, origBranch, origBuildTime, origGoVersion, origRead
	})

	Version, GitCommit, GitBranch, BuildTime, GoVersion = version, commit, branch, buildTime, ""
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.24.0", Settings: settings}, true
	}
}

func TestGetVersionInfoDefaults(t *testing.T) {
	stub(t, "dev", "", "", "")

	info := GetVersionInfo()
	if info.Version != "dev" || info.IsRelease {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.GoVersion != "go1.24.0" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if info.BuildDate.IsZero() || info.BuildTime == "" {
		t.Error("build date should fall back to now")
	}
}

func TestLinkTimeValuesWin(t *testing.T) {
	stub(t, "1.0.0", "abc1234", "main", "2026-01-15T10:30:00Z",
		debug.BuildSetting{Key: "vcs.revision", Value: "ffffffffffffffffffff"},
		debug.BuildSetting{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
	)

	info := GetVersionInfo()
	if info.GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) || info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %v, BuildTime = %q", info.BuildDate, info.BuildTime)
	}
	if !info.IsRelease {
		t.Error("1.0.0 should be a release")
	}
}

func TestVCSSettingsFillGaps(t *testing.T) {
	stub(t, "1.2.0", "", "", "",
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
	)

	info := GetVersionInfo()
	if info.GitCommit != "0123456" {
		t.Errorf("GitCommit = %q, want short hash", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty")
	}
	if info.BuildTime != "2026-03-01T08:00:00Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
	if got := info.Short(); got != "1.2.0-0123456-dirty" {
		t.Errorf("Short() = %q", got)
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	stub(t, "1.0.0-dirty", "", "", "")
	if GetVersionInfo().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name   string
		branch string
		want   string
	}{
		{"main branch hidden", "main", "2.0.0-abc1234, built 2026-02-02T00:00:00Z with go1.24.0"},
		{"feature branch shown", "feature/x", "2.0.0-abc1234 (feature/x), built 2026-02-02T00:00:00Z with go1.24.0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub(t, "2.0.0", "abc1234", tc.branch, "2026-02-02T00:00:00Z")
			if got := GetVersionInfo().String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	stub(t, "dev", "", "", "")
	if got := UserAgent(); got != "audiovault/dev" {
		t.Errorf("UserAgent() = %q", got)
	}
	stub(t, "1.0.0", "abc1234", "", "")
	if got := UserAgent(); !strings.HasPrefix(got, "audiovault/1.0.0-abc1234") {
		t.Errorf("UserAgent() = %q", got)
	}
}
