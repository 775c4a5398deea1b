package version

import (
	"runtime/debug"
	"strings"
)

// Set through -ldflags at release time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Resolve returns the release version, or the module version with a short VCS revision
// for development builds.
func Resolve() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(Version, Commit, info)
}

func resolveVersion(base, commit string, info *debug.BuildInfo) string {
	if base != "" {
		return base
	}

	base = "0.0.0"
	var revision string
	var dirty bool
	if info != nil {
		if v := strings.TrimPrefix(info.Main.Version, "v"); v != "" && v != "(devel)" {
			base = v
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
	}
	if commit != "" {
		revision = commit
	}

	if revision == "" {
		return base
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	suffix := "g" + revision
	if dirty {
		suffix += "-dirty"
	}
	return base + "-" + suffix
}
