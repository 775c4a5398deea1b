package audio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

const (
	formatPCM = 1
	// Recorders killed before finalising leave a placeholder data size behind.
	unsetDataSize = 0xFFFFFFFF
)

// Metrics summarises a mono or multi-channel 16-bit PCM recording.
type Metrics struct {
	SampleRate int
	Channels   int
	Samples    int64
	RMSdBFS    float64
	PeakdBFS   float64
}

func (m Metrics) Duration() time.Duration {
	if m.SampleRate <= 0 || m.Channels <= 0 {
		return 0
	}
	frames := m.Samples / int64(m.Channels)
	return time.Duration(frames) * time.Second / time.Duration(m.SampleRate)
}

// Silent reports whether the recording stays under thresholdDBFS, allowing peaks 6 dB above it.
func (m Metrics) Silent(thresholdDBFS float64) bool {
	if m.Samples == 0 {
		return true
	}
	if math.IsInf(m.RMSdBFS, -1) && math.IsInf(m.PeakdBFS, -1) {
		return true
	}
	return m.RMSdBFS <= thresholdDBFS && m.PeakdBFS <= thresholdDBFS+6
}

// Analyze streams the data chunk of a 16-bit PCM WAV file and measures its level.
func Analyze(path string) (Metrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)

	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Metrics{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Metrics{}, ErrInvalidWAV
	}

	var (
		metrics Metrics
		hasFmt  bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return Metrics{}, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
		}
		id := string(chunk[:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return Metrics{}, ErrInvalidWAV
			}
			buf := make([]byte, padded(size))
			if _, err := io.ReadFull(r, buf); err != nil {
				return Metrics{}, fmt.Errorf("%w: read fmt chunk: %v", ErrInvalidWAV, err)
			}
			audioFormat := binary.LittleEndian.Uint16(buf[0:2])
			bits := binary.LittleEndian.Uint16(buf[14:16])
			if audioFormat != formatPCM || bits != 16 {
				return Metrics{}, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedWAV, audioFormat, bits)
			}
			metrics.Channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			metrics.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			hasFmt = true
		case "data":
			if !hasFmt {
				return Metrics{}, fmt.Errorf("%w: data before fmt", ErrInvalidWAV)
			}
			var data io.Reader = r
			if size != unsetDataSize && size != 0 {
				data = io.LimitReader(r, int64(size))
			}
			return measure(data, metrics)
		default:
			if _, err := r.Discard(int(padded(size))); err != nil {
				return Metrics{}, fmt.Errorf("%w: skip %q chunk: %v", ErrInvalidWAV, id, err)
			}
		}
	}
}

// IsSilentWAV is Analyze followed by Metrics.Silent.
func IsSilentWAV(path string, thresholdDBFS float64) (bool, Metrics, error) {
	metrics, err := Analyze(path)
	if err != nil {
		return false, Metrics{}, err
	}
	return metrics.Silent(thresholdDBFS), metrics, nil
}

func measure(r io.Reader, metrics Metrics) (Metrics, error) {
	var (
		peak       float64
		sumSquares float64
		buf        = make([]byte, 32*1024)
		carry      []byte
	)

	for {
		n, err := r.Read(buf)
		chunk := append(carry, buf[:n]...)
		whole := len(chunk) - len(chunk)%2
		for i := 0; i < whole; i += 2 {
			value := float64(int16(binary.LittleEndian.Uint16(chunk[i:]))) / 32768.0
			peak = math.Max(peak, math.Abs(value))
			sumSquares += value * value
			metrics.Samples++
		}
		carry = append(carry[:0], chunk[whole:]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Metrics{}, fmt.Errorf("read wav data: %w", err)
		}
	}

	if metrics.Samples == 0 {
		metrics.RMSdBFS = math.Inf(-1)
		metrics.PeakdBFS = math.Inf(-1)
		return metrics, nil
	}

	metrics.RMSdBFS = amplitudeToDBFS(math.Sqrt(sumSquares / float64(metrics.Samples)))
	metrics.PeakdBFS = amplitudeToDBFS(peak)
	return metrics, nil
}

func padded(size uint32) uint32 {
	return size + size%2
}

func amplitudeToDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(amplitude)
}
