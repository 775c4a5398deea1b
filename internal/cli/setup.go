package cli

import (
	"fmt"
	"os"

	"github.com/fmueller/voxhold/internal/download"
	"github.com/fmueller/voxhold/internal/platform"
	"github.com/fmueller/voxhold/internal/transcribe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSetupCmd(app *appState) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download and verify the speech model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if model == "" {
				model = app.settings.Model
			}

			modelDir, err := platform.ResolveModelDir(app.settings.ModelDir)
			if err != nil {
				return err
			}
			resolved, err := transcribe.ResolveModel(model, modelDir)
			if err != nil {
				return err
			}
			if resolved.IsCustomPath {
				return fmt.Errorf("setup expects a named model; got custom path %s", resolved.Path)
			}

			if !resolved.NeedsDownload && resolved.SHA256 != "" {
				if err := download.VerifyFileChecksum(resolved.Path, resolved.SHA256); err != nil {
					app.log().Warn("model checksum verification failed; downloading fresh copy", zap.String("model", resolved.Name), zap.Error(err))
					resolved.NeedsDownload = true
				}
			}

			if !resolved.NeedsDownload {
				app.log().Info("model already present", zap.String("model", resolved.Name), zap.String("path", resolved.Path))
				fmt.Fprintf(cmd.OutOrStdout(), "Model %s already present at %s\n", resolved.Name, resolved.Path)
				return nil
			}

			if err := os.MkdirAll(modelDir, 0o755); err != nil {
				return fmt.Errorf("create model directory %s: %w", modelDir, err)
			}
			if resolved.SHA256 == "" {
				app.log().Warn("model has no pinned checksum; download will not be verified", zap.String("model", resolved.Name))
			}
			app.log().Info("downloading model", zap.String("model", resolved.Name), zap.String("path", resolved.Path))
			if err := download.DownloadFile(cmd.Context(), download.Options{
				URL:            resolved.URL,
				Destination:    resolved.Path,
				ExpectedSHA256: resolved.SHA256,
				Description:    "model " + resolved.Name,
				NoProgress:     !app.progressEnabled(),
				Logger:         app.log(),
			}); err != nil {
				return fmt.Errorf("download model %s: %w", resolved.Name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Model %s installed at %s\n", resolved.Name, resolved.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", model, "Model name to install (default: the configured model)")
	return cmd
}
