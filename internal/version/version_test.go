package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildInfo(version string, settings map[string]string) *debug.BuildInfo {
	info := &debug.BuildInfo{Main: debug.Module{Version: version}}
	for key, value := range settings {
		info.Settings = append(info.Settings, debug.BuildSetting{Key: key, Value: value})
	}
	return info
}

func TestResolveVersion_ReleaseLdflagsWin(t *testing.T) {
	t.Parallel()
	got := resolveVersion("1.2.0", "abcdef1234", buildInfo("(devel)", map[string]string{"vcs.revision": "ffff"}))
	require.Equal(t, "1.2.0", got)
}

func TestResolveVersion_ModuleVersion(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", "", buildInfo("v0.4.1", nil))
	require.Equal(t, "0.4.1", got)
}

func TestResolveVersion_DevelBuildWithRevision(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", "", buildInfo("(devel)", map[string]string{"vcs.revision": "abcdef0123456789"}))
	require.Equal(t, "0.0.0-gabcdef0", got)
}

func TestResolveVersion_DirtyWorkingTree(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", "", buildInfo("(devel)", map[string]string{"vcs.revision": "abcdef0123", "vcs.modified": "true"}))
	require.Equal(t, "0.0.0-gabcdef0-dirty", got)
}

func TestResolveVersion_CommitLdflag(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", "1234567", nil)
	require.Equal(t, "0.0.0-g1234567", got)
}

func TestResolveVersion_NoBuildInfo(t *testing.T) {
	t.Parallel()
	require.Equal(t, "0.0.0", resolveVersion("", "", nil))
}
