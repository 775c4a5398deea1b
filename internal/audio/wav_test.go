package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, samples []int16, dataSize uint32) string {
	t.Helper()

	out := make([]byte, 0, 44+len(samples)*2)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(samples)*2))
	out = append(out, "WAVE"...)

	out = append(out, "LIST"...)
	out = binary.LittleEndian.AppendUint32(out, 3)
	out = append(out, 'a', 'b', 'c', 0)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint32(out, 16000)
	out = binary.LittleEndian.AppendUint32(out, 32000)
	out = binary.LittleEndian.AppendUint16(out, 2)
	out = binary.LittleEndian.AppendUint16(out, 16)

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, dataSize)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}

	path := filepath.Join(t.TempDir(), "rec.wav")
	require.NoError(t, os.WriteFile(path, out, 0o600))
	return path
}

func sine(n int, amplitude float64) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(amplitude * 32767 * math.Sin(2*math.Pi*440*float64(i)/16000.0))
	}
	return samples
}

func TestIsSilentWAVDetectsSilence(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, make([]int16, 16000), 32000)

	silent, metrics, err := IsSilentWAV(path, -65)
	require.NoError(t, err)
	require.True(t, silent)
	require.True(t, math.IsInf(metrics.RMSdBFS, -1))
	require.EqualValues(t, 16000, metrics.Samples)
	require.Equal(t, time.Second, metrics.Duration())
}

func TestIsSilentWAVDetectsSpeechLikeSignal(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, sine(8000, 0.25), 16000)

	silent, metrics, err := IsSilentWAV(path, -65)
	require.NoError(t, err)
	require.False(t, silent)
	require.Greater(t, metrics.PeakdBFS, -20.0)
	require.Equal(t, 16000, metrics.SampleRate)
	require.Equal(t, 1, metrics.Channels)
}

func TestAnalyzeReadsUnfinalisedDataChunkToEOF(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, sine(4000, 0.5), 0xFFFFFFFF)

	metrics, err := Analyze(path)
	require.NoError(t, err)
	require.EqualValues(t, 4000, metrics.Samples)
	require.Equal(t, 250*time.Millisecond, metrics.Duration())
}

func TestAnalyzeHeaderOnlyIsSilent(t *testing.T) {
	t.Parallel()

	silent, metrics, err := IsSilentWAV(writeWAV(t, nil, 0), -65)
	require.NoError(t, err)
	require.True(t, silent)
	require.Zero(t, metrics.Samples)
}

func TestAnalyzeRejectsInvalidFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-wav.wav")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	_, err := Analyze(path)
	require.ErrorIs(t, err, ErrInvalidWAV)

	empty := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = Analyze(empty)
	require.ErrorIs(t, err, ErrInvalidWAV)
}
