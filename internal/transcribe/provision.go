package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/fmueller/voxhold/internal/download"
	"go.uber.org/zap"
)

var ErrModelMissing = errors.New("model file is missing")

type ProvisionOptions struct {
	AutoDownload bool
	NoProgress   bool
	Logger       *zap.Logger
	// Download is swapped out in tests.
	Download func(ctx context.Context, opts download.Options) error
}

// EnsureModel makes sure resolved.Path exists, downloading registry models when allowed.
func EnsureModel(ctx context.Context, resolved ResolvedModel, opts ProvisionOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if !resolved.NeedsDownload {
		return nil
	}
	if !opts.AutoDownload {
		return fmt.Errorf("%w: %s (run `voxhold setup` or enable auto_download)", ErrModelMissing, resolved.Path)
	}

	fetch := opts.Download
	if fetch == nil {
		fetch = download.DownloadFile
	}

	if resolved.SHA256 == "" {
		logger.Warn("model has no pinned checksum; download will not be verified", zap.String("model", resolved.Name))
	}
	logger.Info("downloading model", zap.String("model", resolved.Name), zap.String("path", resolved.Path))
	if err := fetch(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     opts.NoProgress,
		Logger:         logger,
	}); err != nil {
		return fmt.Errorf("download model %s: %w", resolved.Name, err)
	}
	return nil
}
