package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDirsForLinuxWithXDG(t *testing.T) {
	t.Parallel()

	dirs, err := DirsFor("linux", "/home/dev", envOf(map[string]string{
		"XDG_CONFIG_HOME": "/tmp/cfg",
		"XDG_DATA_HOME":   "/tmp/xdg-data",
		"XDG_STATE_HOME":  "/tmp/state",
	}))
	require.NoError(t, err)
	require.Equal(t, "/tmp/cfg/voxhold/config.toml", dirs.ConfigFile())
	require.Equal(t, "/tmp/xdg-data/voxhold/models", dirs.Models())
	require.Equal(t, "/tmp/state/voxhold/voxhold.log", dirs.LogFile())
}

func TestDirsForLinuxWithoutXDG(t *testing.T) {
	t.Parallel()

	dirs, err := DirsFor("linux", "/home/dev", envOf(map[string]string{"XDG_DATA_HOME": "relative/ignored"}))
	require.NoError(t, err)
	require.Equal(t, "/home/dev/.config/voxhold", dirs.Config)
	require.Equal(t, "/home/dev/.local/share/voxhold/models", dirs.Models())
	require.Equal(t, "/home/dev/.local/state/voxhold", dirs.State)
}

func TestDirsForUnsupported(t *testing.T) {
	t.Parallel()

	_, err := DirsFor("darwin", "/Users/dev", envOf(nil))
	require.Error(t, err)

	_, err = DirsFor("linux", "", envOf(nil))
	require.Error(t, err)
}

func TestNormalizeArch(t *testing.T) {
	t.Parallel()

	require.Equal(t, "amd64", NormalizeArch("x86_64"))
	require.Equal(t, "arm64", NormalizeArch("aarch64"))
	require.Equal(t, "riscv64", NormalizeArch("riscv64"))
	require.Equal(t, "linux/amd64", Runtime{OS: "linux", Arch: "amd64"}.String())
}
