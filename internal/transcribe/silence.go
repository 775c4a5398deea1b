package transcribe

import (
	"context"

	"github.com/fmueller/voxhold/internal/audio"
	"github.com/fmueller/voxhold/internal/ports"
	"go.uber.org/zap"
)

const DefaultSilenceThresholdDBFS = -65.0

// SilenceGate skips the wrapped transcriber for recordings that contain no audible signal.
type SilenceGate struct {
	Next          ports.Transcriber
	ThresholdDBFS float64
	Logger        *zap.Logger
}

func (g *SilenceGate) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	silent, metrics, err := audio.IsSilentWAV(audioPath, g.ThresholdDBFS)
	if err != nil {
		// Unreadable headers are left for whisper to judge.
		logger.Debug("silence check skipped", zap.String("path", audioPath), zap.Error(err))
		return g.Next.Transcribe(ctx, audioPath, language)
	}

	if silent {
		logger.Debug("recording is silent, skipping transcription",
			zap.Duration("duration", metrics.Duration()),
			zap.Float64("rms_dbfs", metrics.RMSdBFS),
			zap.Float64("peak_dbfs", metrics.PeakdBFS),
		)
		return "", nil
	}
	return g.Next.Transcribe(ctx, audioPath, language)
}
