package transcribe

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingTranscriber struct {
	calls int
}

func (c *countingTranscriber) Transcribe(context.Context, string, string) (string, error) {
	c.calls++
	return "hello world", nil
}

func pcmWAV(t *testing.T, sample int16, count int) string {
	t.Helper()

	out := append([]byte("RIFF"), 0, 0, 0, 0)
	out = append(out, "WAVEfmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint32(out, 16000)
	out = binary.LittleEndian.AppendUint32(out, 32000)
	out = binary.LittleEndian.AppendUint16(out, 2)
	out = binary.LittleEndian.AppendUint16(out, 16)
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(count*2))
	for i := 0; i < count; i++ {
		value := sample
		if i%2 == 1 {
			value = -sample
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(value))
	}

	path := filepath.Join(t.TempDir(), "rec.wav")
	require.NoError(t, os.WriteFile(path, out, 0o600))
	return path
}

func TestSilenceGateSkipsSilentRecording(t *testing.T) {
	t.Parallel()

	next := &countingTranscriber{}
	gate := &SilenceGate{Next: next, ThresholdDBFS: DefaultSilenceThresholdDBFS}

	text, err := gate.Transcribe(context.Background(), pcmWAV(t, 0, 1600), "en")
	require.NoError(t, err)
	require.Empty(t, text)
	require.Zero(t, next.calls)
}

func TestSilenceGatePassesAudibleRecording(t *testing.T) {
	t.Parallel()

	next := &countingTranscriber{}
	gate := &SilenceGate{Next: next, ThresholdDBFS: DefaultSilenceThresholdDBFS}

	text, err := gate.Transcribe(context.Background(), pcmWAV(t, 8000, 1600), "en")
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Equal(t, 1, next.calls)
}

func TestSilenceGateDefersUnreadableFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

	next := &countingTranscriber{}
	_, err := (&SilenceGate{Next: next, ThresholdDBFS: -65}).Transcribe(context.Background(), path, "en")
	require.NoError(t, err)
	require.Equal(t, 1, next.calls)
}
