package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fmueller/voxhold/internal/domain"
	"github.com/fmueller/voxhold/internal/ports"
	"github.com/fmueller/voxhold/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const monitorBuffer = 32

func (a *appState) runDaemon(cmd *cobra.Command) error {
	if a.listDevices {
		return printInputDevices(cmd.OutOrStdout(), a.deps().Lister)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink ports.EventSink = service.LogSink{Logger: a.log()}
	if a.gui {
		channel := service.NewChannelSink(monitorBuffer)
		spinner := newStatusSpinner(a.progressEnabled())
		done := make(chan struct{})
		go func() {
			defer close(done)
			runMonitor(channel.Events(), cmd.OutOrStdout(), spinner)
		}()
		defer func() {
			channel.Close()
			<-done
		}()
		sink = service.MultiSink{sink, channel}
	}

	sink.StatusChanged(domain.StatusStarting)
	services, err := a.buildFn(ctx, a.settings, a.deps(), sink, a.log())
	if err != nil {
		sink.Error(err)
		return err
	}

	a.log().Info("voxhold started",
		zap.String("config", a.configPath),
		zap.String("key", a.settings.Key),
		zap.String("device", services.Device.Path()),
		zap.String("paste_method", services.Method.String()),
		zap.String("recorder", services.Backend),
	)

	if err := services.Service.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	return nil
}
