package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "voxhold"

type Runtime struct {
	OS   string
	Arch string
}

func CurrentRuntime() Runtime {
	return Runtime{
		OS:   runtime.GOOS,
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

func (r Runtime) String() string {
	return r.OS + "/" + r.Arch
}

func NormalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// Dirs are the XDG base directories voxhold reads and writes.
type Dirs struct {
	Config string
	Data   string
	State  string
}

func (d Dirs) ConfigFile() string {
	return filepath.Join(d.Config, "config.toml")
}

func (d Dirs) Models() string {
	return filepath.Join(d.Data, "models")
}

func (d Dirs) LogFile() string {
	return filepath.Join(d.State, appName+".log")
}

// DirsFor derives the directories from a home directory and an XDG lookup function.
func DirsFor(goos, homeDir string, getenv func(string) string) (Dirs, error) {
	if goos != "linux" {
		return Dirs{}, fmt.Errorf("unsupported OS: %s", goos)
	}
	if homeDir == "" {
		return Dirs{}, errors.New("home directory is empty")
	}

	base := func(env string, fallback ...string) string {
		if value := getenv(env); value != "" && filepath.IsAbs(value) {
			return filepath.Join(value, appName)
		}
		return filepath.Join(append([]string{homeDir}, append(fallback, appName)...)...)
	}

	return Dirs{
		Config: base("XDG_CONFIG_HOME", ".config"),
		Data:   base("XDG_DATA_HOME", ".local", "share"),
		State:  base("XDG_STATE_HOME", ".local", "state"),
	}, nil
}

func CurrentDirs() (Dirs, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Dirs{}, fmt.Errorf("resolve user home: %w", err)
	}
	return DirsFor(runtime.GOOS, homeDir, os.Getenv)
}

func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	dirs, err := CurrentDirs()
	if err != nil {
		return "", err
	}
	return dirs.Models(), nil
}
