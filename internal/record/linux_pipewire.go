package record

import (
	"context"
	"errors"
	"strconv"

	"github.com/fmueller/voxhold/internal/process"
)

type pipewireBackend struct {
	target string
}

func newPipeWireBackend(target string) Backend {
	return &pipewireBackend{target: target}
}

func (b *pipewireBackend) Name() string {
	return "pw-record"
}

func (b *pipewireBackend) Available() bool {
	return commandAvailable("pw-record")
}

func (b *pipewireBackend) Command(outputPath string) process.Command {
	args := []string{"--rate", strconv.Itoa(sampleRate), "--channels", strconv.Itoa(channels), "--format", "s16"}
	if b.target != "" {
		args = append(args, "--target", b.target)
	}
	args = append(args, outputPath)
	return process.Command{Binary: "pw-record", Args: args}
}

func (b *pipewireBackend) ListDevices(ctx context.Context) (string, error) {
	if commandAvailable("pw-cli") {
		return commandOutput(ctx, "pw-cli", "ls", "Node")
	}

	if out, err := commandOutput(ctx, "pw-record", "--list-targets"); err == nil {
		return out, nil
	}

	if commandAvailable("pactl") {
		return commandOutput(ctx, "pactl", "list", "short", "sources")
	}

	return "", errors.New("no pipewire device listing command available")
}
