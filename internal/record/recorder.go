package record

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fmueller/voxhold/internal/process"
)

var (
	ErrNoBackendAvailable = errors.New("no recording backend available")
	ErrStartFailed        = errors.New("recording failed to start")
)

const (
	sampleRate = 16000
	channels   = 1
)

// Backend is a capture tool that writes mono 16 kHz s16le WAV until interrupted.
type Backend interface {
	Name() string
	Available() bool
	Command(outputPath string) process.Command
	ListDevices(ctx context.Context) (string, error)
}

func SelectBackend(backends []Backend, preferred string) (Backend, error) {
	if len(backends) == 0 {
		return nil, errors.New("no backends configured")
	}

	if preferred != "" && preferred != "auto" {
		for _, backend := range backends {
			if backend.Name() == preferred {
				if !backend.Available() {
					return nil, fmt.Errorf("%w: requested backend %q is not on PATH", ErrNoBackendAvailable, preferred)
				}
				return backend, nil
			}
		}
		return nil, fmt.Errorf("unknown backend %q", preferred)
	}

	for _, backend := range backends {
		if backend.Available() {
			return backend, nil
		}
	}

	return nil, ErrNoBackendAvailable
}

// DefaultBackends lists the capture tools for goos in preference order. captureDevice, when set,
// is handed to whichever backend is selected in that tool's own device syntax.
func DefaultBackends(goos, captureDevice string) []Backend {
	switch goos {
	case "linux":
		return []Backend{
			newALSARecorderBackend(captureDevice),
			newPipeWireBackend(captureDevice),
			newFFMPEGLinuxBackend(captureDevice),
		}
	default:
		return nil
	}
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func commandOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed != "" {
			return "", fmt.Errorf("%s %s failed: %w (%s)", name, strings.Join(args, " "), err, trimmed)
		}
		return "", fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return trimmed, nil
}
