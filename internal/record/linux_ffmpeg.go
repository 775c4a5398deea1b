package record

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fmueller/voxhold/internal/process"
)

type ffmpegLinuxBackend struct {
	format string
	input  string
}

func newFFMPEGLinuxBackend(source string) Backend {
	if source == "" {
		source = "default"
	}
	return &ffmpegLinuxBackend{format: "pulse", input: source}
}

func (b *ffmpegLinuxBackend) Name() string {
	return "ffmpeg"
}

func (b *ffmpegLinuxBackend) Available() bool {
	return commandAvailable("ffmpeg")
}

func (b *ffmpegLinuxBackend) Command(outputPath string) process.Command {
	return process.Command{
		Binary: "ffmpeg",
		Args: []string{
			"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
			"-f", b.format, "-i", b.input,
			"-ac", strconv.Itoa(channels),
			"-ar", strconv.Itoa(sampleRate),
			"-c:a", "pcm_s16le",
			outputPath,
		},
	}
}

func (b *ffmpegLinuxBackend) ListDevices(ctx context.Context) (string, error) {
	var sections []string

	if commandAvailable("pactl") {
		if out, err := commandOutput(ctx, "pactl", "list", "short", "sources"); err == nil {
			sections = append(sections, "PulseAudio/PipeWire sources:\n"+out)
		} else {
			sections = append(sections, "PulseAudio/PipeWire sources: "+err.Error())
		}
	}

	if commandAvailable("arecord") {
		if out, err := commandOutput(ctx, "arecord", "-L"); err == nil {
			sections = append(sections, "ALSA devices:\n"+out)
		} else {
			sections = append(sections, "ALSA devices: "+err.Error())
		}
	}

	if len(sections) == 0 {
		return "", errors.New("no device listing command available")
	}

	return strings.Join(sections, "\n\n"), nil
}
