package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fmueller/voxhold/internal/bootstrap"
	"github.com/fmueller/voxhold/internal/clipboard"
	"github.com/fmueller/voxhold/internal/input"
	"github.com/fmueller/voxhold/internal/paste"
	"github.com/fmueller/voxhold/internal/platform"
	"github.com/fmueller/voxhold/internal/record"
	"github.com/fmueller/voxhold/internal/transcribe"
	"github.com/spf13/cobra"
)

var errPreflightFailed = errors.New("preflight checks failed")

type checkLevel string

const (
	checkPass checkLevel = "PASS"
	checkWarn checkLevel = "WARN"
	checkFail checkLevel = "FAIL"
)

type checkResult struct {
	Level  checkLevel
	Name   string
	Detail string
}

func newCheckCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify input access, recorder, paste tools and the speech model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := app.runChecks(app.deps())
			return reportChecks(cmd.OutOrStdout(), results)
		},
	}
}

func (a *appState) runChecks(deps bootstrap.Deps) []checkResult {
	results := []checkResult{a.checkConfig()}

	keyCode, err := input.ParseKey(a.settings.Key)
	if err != nil {
		results = append(results, checkResult{checkFail, "key", err.Error()})
	} else {
		results = append(results, checkResult{checkPass, "key", fmt.Sprintf("%s (code %d)", input.KeyName(keyCode), keyCode)})
		results = append(results, a.checkDevice(deps, keyCode))
	}

	if backend, err := record.SelectBackend(deps.Backends, a.settings.Recorder); err != nil {
		results = append(results, checkResult{checkFail, "recorder", err.Error()})
	} else {
		results = append(results, checkResult{checkPass, "recorder", backend.Name()})
	}

	if method, err := paste.ResolveMethod(a.settings.PasteMethod, deps.Getenv, deps.Finder); err != nil {
		results = append(results, checkResult{checkFail, "paste", err.Error()})
	} else {
		results = append(results, checkResult{checkPass, "paste", method.String()})
	}

	if helper, err := clipboard.Detect(deps.Finder); err != nil {
		results = append(results, checkResult{checkWarn, "clipboard", "no wl-copy or xclip; clipboard paste disabled"})
	} else {
		results = append(results, checkResult{checkPass, "clipboard", helper.Name})
	}

	if path, err := a.engineFn(); err != nil {
		results = append(results, checkResult{checkFail, "whisper", err.Error()})
	} else {
		results = append(results, checkResult{checkPass, "whisper", path})
	}

	return append(results, a.checkModel())
}

func (a *appState) checkConfig() checkResult {
	dir := filepath.Dir(a.configPath)
	if _, err := os.Stat(a.configPath); err != nil {
		return checkResult{checkWarn, "config", fmt.Sprintf("%s not found; defaults in use", a.configPath)}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return checkResult{checkWarn, "config", fmt.Sprintf("config directory %s is not accessible", dir)}
	}
	return checkResult{checkPass, "config", a.configPath}
}

func (a *appState) checkDevice(deps bootstrap.Deps, keyCode uint16) checkResult {
	device, err := input.Resolve(a.settings.KeyboardDevice, keyCode, deps.Lister, a.log())
	if errors.Is(err, fs.ErrPermission) {
		return checkResult{checkFail, "input", err.Error() + " (add your user to the input group and log in again)"}
	}
	if err != nil {
		return checkResult{checkFail, "input", err.Error()}
	}
	defer device.Close()

	if !deps.Lister.HasKey(device.Path(), keyCode) {
		return checkResult{checkWarn, "input", fmt.Sprintf("%s - %s does not report %s", device.Path(), device.Name(), input.KeyName(keyCode))}
	}
	return checkResult{checkPass, "input", fmt.Sprintf("%s - %s", device.Path(), device.Name())}
}

func (a *appState) checkModel() checkResult {
	modelDir, err := platform.ResolveModelDir(a.settings.ModelDir)
	if err != nil {
		return checkResult{checkFail, "model", err.Error()}
	}
	resolved, err := transcribe.ResolveModel(a.settings.Model, modelDir)
	switch {
	case err != nil:
		return checkResult{checkFail, "model", err.Error()}
	case !resolved.NeedsDownload:
		return checkResult{checkPass, "model", resolved.Path}
	case a.settings.AutoDownload:
		return checkResult{checkWarn, "model", fmt.Sprintf("%s missing; it will be downloaded on start", resolved.Name)}
	default:
		return checkResult{checkFail, "model", fmt.Sprintf("%s missing at %s; run `voxhold setup`", resolved.Name, resolved.Path)}
	}
}

func reportChecks(out io.Writer, results []checkResult) error {
	failed := 0
	for _, result := range results {
		fmt.Fprintf(out, "%-4s %-10s %s\n", result.Level, result.Name, result.Detail)
		if result.Level == checkFail {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d critical", errPreflightFailed, failed)
	}
	return nil
}
