package bootstrap

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/fmueller/voxhold/internal/config"
	"github.com/fmueller/voxhold/internal/input"
	"github.com/fmueller/voxhold/internal/paste"
	"github.com/fmueller/voxhold/internal/platform"
	"github.com/fmueller/voxhold/internal/ports"
	"github.com/fmueller/voxhold/internal/process"
	"github.com/fmueller/voxhold/internal/record"
	"github.com/fmueller/voxhold/internal/service"
	"github.com/fmueller/voxhold/internal/transcribe"
	"go.uber.org/zap"
)

// Deps are the environment-facing collaborators; tests replace them with fakes.
type Deps struct {
	Lister   input.Lister
	Finder   process.Finder
	Runner   process.Runner
	Getenv   func(string) string
	Backends []record.Backend
	// Transcriber, when set, replaces the whisper engine and its model provisioning.
	Transcriber ports.Transcriber
	NoProgress  bool
}

func DefaultDeps(settings config.Settings, logger *zap.Logger) Deps {
	return Deps{
		Lister:   input.SystemLister{},
		Finder:   process.LookPath{},
		Runner:   process.NewExecRunner(logger),
		Getenv:   os.Getenv,
		Backends: record.DefaultBackends(runtime.GOOS, settings.CaptureDevice),
	}
}

// Services is the assembled runtime graph.
type Services struct {
	Service *service.Service
	Device  ports.InputDevice
	Method  paste.Method
	Backend string
	Model   transcribe.ResolvedModel
}

// Build validates settings and wires the dictation graph. Any error here is fatal at startup;
// on error nothing is left open.
func Build(ctx context.Context, settings config.Settings, deps Deps, sink ports.EventSink, logger *zap.Logger) (Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := settings.Validate(); err != nil {
		return Services{}, err
	}

	keyCode, err := input.ParseKey(settings.Key)
	if err != nil {
		return Services{}, err
	}

	method, err := paste.ResolveMethod(settings.PasteMethod, deps.Getenv, deps.Finder)
	if err != nil {
		return Services{}, err
	}
	logger.Info("paste method resolved", zap.String("method", method.String()))

	backend, err := record.SelectBackend(deps.Backends, settings.Recorder)
	if err != nil {
		return Services{}, fmt.Errorf("select recorder: %w", err)
	}

	var resolved transcribe.ResolvedModel
	transcriber := deps.Transcriber
	if transcriber == nil {
		resolved, transcriber, err = buildTranscriber(ctx, settings, deps, logger)
		if err != nil {
			return Services{}, err
		}
	}
	if settings.SilenceGate {
		transcriber = &transcribe.SilenceGate{Next: transcriber, ThresholdDBFS: settings.SilenceThresholdDBFS, Logger: logger}
	}

	// The device is opened last so that no earlier failure has to release it.
	device, err := input.Resolve(settings.KeyboardDevice, keyCode, deps.Lister, logger)
	if err != nil {
		return Services{}, err
	}

	controller := record.NewController(backend, logger)
	dispatcher := paste.NewDispatcher(method, paste.Options{
		Hotkey:         settings.PasteHotkey,
		ClipboardPaste: settings.ClipboardPaste,
		KeyDelayMS:     settings.YdotoolKeyDelayMS,
		ClipboardDelay: settings.ClipboardPasteDelay(),
	}, deps.Runner, deps.Finder, logger)

	svc := service.New(device, controller, transcriber, dispatcher, sink, service.Config{
		KeyCode:     keyCode,
		Language:    settings.Language,
		PollTimeout: service.DefaultPollTimeout,
		SettleDelay: service.DefaultSettleDelay,
	}, logger)

	return Services{
		Service: svc,
		Device:  device,
		Method:  method,
		Backend: backend.Name(),
		Model:   resolved,
	}, nil
}

func buildTranscriber(ctx context.Context, settings config.Settings, deps Deps, logger *zap.Logger) (transcribe.ResolvedModel, ports.Transcriber, error) {
	modelDir, err := platform.ResolveModelDir(settings.ModelDir)
	if err != nil {
		return transcribe.ResolvedModel{}, nil, err
	}

	resolved, err := transcribe.ResolveModel(settings.Model, modelDir)
	if err != nil {
		return transcribe.ResolvedModel{}, nil, err
	}

	if err := transcribe.EnsureModel(ctx, resolved, transcribe.ProvisionOptions{
		AutoDownload: settings.AutoDownload,
		NoProgress:   deps.NoProgress,
		Logger:       logger,
	}); err != nil {
		return transcribe.ResolvedModel{}, nil, err
	}

	engine, err := transcribe.NewEngine(resolved.Path, deps.Runner, logger)
	if err != nil {
		return transcribe.ResolvedModel{}, nil, err
	}
	return resolved, engine, nil
}
