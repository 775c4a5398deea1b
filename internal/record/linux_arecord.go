package record

import (
	"context"
	"strconv"

	"github.com/fmueller/voxhold/internal/process"
)

type alsaBackend struct {
	device string
}

func newALSARecorderBackend(device string) Backend {
	return &alsaBackend{device: device}
}

func (b *alsaBackend) Name() string {
	return "arecord"
}

func (b *alsaBackend) Available() bool {
	return commandAvailable("arecord")
}

func (b *alsaBackend) Command(outputPath string) process.Command {
	args := []string{"-q", "-f", "S16_LE", "-r", strconv.Itoa(sampleRate), "-c", strconv.Itoa(channels), "-t", "wav"}
	if b.device != "" {
		args = append(args, "-D", b.device)
	}
	args = append(args, outputPath)
	return process.Command{Binary: "arecord", Args: args}
}

func (b *alsaBackend) ListDevices(ctx context.Context) (string, error) {
	return commandOutput(ctx, "arecord", "-L")
}
