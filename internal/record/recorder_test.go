package record

import (
	"context"
	"errors"
	"testing"

	"github.com/fmueller/voxhold/internal/process"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	name      string
	available bool
}

func (s stubBackend) Name() string                                { return s.name }
func (s stubBackend) Available() bool                             { return s.available }
func (s stubBackend) Command(string) process.Command              { return process.Command{Binary: s.name} }
func (s stubBackend) ListDevices(context.Context) (string, error) { return "", nil }

func TestSelectBackendUsesPriorityOrder(t *testing.T) {
	t.Parallel()

	backend, err := SelectBackend([]Backend{
		stubBackend{name: "arecord", available: false},
		stubBackend{name: "pw-record", available: true},
		stubBackend{name: "ffmpeg", available: true},
	}, "auto")
	require.NoError(t, err)
	require.Equal(t, "pw-record", backend.Name())
}

func TestSelectBackendUsesPreferredWhenAvailable(t *testing.T) {
	t.Parallel()

	backend, err := SelectBackend([]Backend{
		stubBackend{name: "pw-record", available: true},
		stubBackend{name: "arecord", available: true},
	}, "arecord")
	require.NoError(t, err)
	require.Equal(t, "arecord", backend.Name())
}

func TestSelectBackendReturnsErrorWhenUnavailable(t *testing.T) {
	t.Parallel()

	_, err := SelectBackend([]Backend{
		stubBackend{name: "pw-record", available: false},
	}, "pw-record")
	require.ErrorIs(t, err, ErrNoBackendAvailable)

	_, err = SelectBackend([]Backend{stubBackend{name: "arecord", available: true}}, "sox")
	require.Error(t, err)
}

func TestSelectBackendReturnsErrorWhenNoBackendAvailable(t *testing.T) {
	t.Parallel()

	_, err := SelectBackend([]Backend{
		stubBackend{name: "pw-record", available: false},
		stubBackend{name: "arecord", available: false},
	}, "auto")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoBackendAvailable))
}

func TestDefaultBackendsLinuxOrder(t *testing.T) {
	t.Parallel()

	var names []string
	for _, backend := range DefaultBackends("linux", "") {
		names = append(names, backend.Name())
	}
	require.Equal(t, []string{"arecord", "pw-record", "ffmpeg"}, names)
	require.Empty(t, DefaultBackends("windows", "hw:1,0"))
}

func TestDefaultBackendsCarryCaptureDevice(t *testing.T) {
	t.Parallel()

	var commands []string
	for _, backend := range DefaultBackends("linux", "usb-mic") {
		commands = append(commands, backend.Command("/tmp/out.wav").String())
	}
	require.Equal(t, []string{
		"arecord -q -f S16_LE -r 16000 -c 1 -t wav -D usb-mic /tmp/out.wav",
		"pw-record --rate 16000 --channels 1 --format s16 --target usb-mic /tmp/out.wav",
		"ffmpeg -nostdin -hide_banner -loglevel error -y -f pulse -i usb-mic -ac 1 -ar 16000 -c:a pcm_s16le /tmp/out.wav",
	}, commands)
}
