package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fmueller/voxhold/internal/domain"
	"github.com/fmueller/voxhold/internal/ports"
	"go.uber.org/zap"
)

var ErrDeviceLost = errors.New("input device lost")

const (
	DefaultPollTimeout = 200 * time.Millisecond
	DefaultSettleDelay = 100 * time.Millisecond
)

type Config struct {
	KeyCode  uint16
	Language string
	// PollTimeout and SettleDelay fall back to the defaults when zero or negative.
	PollTimeout time.Duration
	SettleDelay time.Duration
}

// Service turns hold/release of one key into record, transcribe and paste cycles.
type Service struct {
	device      ports.InputDevice
	recorder    ports.Recorder
	transcriber ports.Transcriber
	paster      ports.Paster
	events      ports.EventSink
	cfg         Config
	logger      *zap.Logger

	sleep  func(time.Duration)
	remove func(string) error

	mu      sync.Mutex
	state   domain.State
	session ports.Recording
}

func New(
	device ports.InputDevice,
	recorder ports.Recorder,
	transcriber ports.Transcriber,
	paster ports.Paster,
	events ports.EventSink,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = LogSink{Logger: logger}
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Service{
		device:      device,
		recorder:    recorder,
		transcriber: transcriber,
		paster:      paster,
		events:      events,
		cfg:         cfg,
		logger:      logger,
		sleep:       time.Sleep,
		remove:      os.Remove,
		state:       domain.StateIdle,
	}
}

func (s *Service) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the effective configuration after defaults were applied.
func (s *Service) Config() Config {
	return s.cfg
}

// Run polls the device until ctx is cancelled or the device fails. Per-utterance failures are
// reported to the event sink and never end the loop.
func (s *Service) Run(ctx context.Context) error {
	if s.State() == domain.StateStopped {
		return errors.New("service already stopped")
	}

	s.logger.Info("dictation ready", zap.String("device", s.device.Path()), zap.Uint16("key_code", s.cfg.KeyCode))
	s.events.StatusChanged(domain.StatusReady)
	defer s.shutdown()

	for ctx.Err() == nil {
		readable, err := s.device.Wait(s.cfg.PollTimeout)
		if err != nil {
			return s.deviceLost(err)
		}
		if !readable {
			continue
		}

		events, err := s.device.ReadEvents()
		if err != nil {
			return s.deviceLost(err)
		}
		for _, ev := range events {
			s.handle(ctx, ev)
		}
	}
	return nil
}

func (s *Service) handle(ctx context.Context, ev domain.KeyEvent) {
	if ev.Type != domain.EventTypeKey || ev.Code != s.cfg.KeyCode {
		return
	}

	state := s.State()
	switch {
	case ev.Value == domain.KeyPressed && state == domain.StateIdle:
		s.startRecording(ctx)
	case ev.Value == domain.KeyReleased && state == domain.StateRecording:
		s.finishUtterance(ctx)
	case ev.Value == domain.KeyPressed:
		s.logger.Debug("key press ignored", zap.String("state", string(state)))
	}
}

func (s *Service) startRecording(ctx context.Context) {
	session, err := s.recorder.Start(ctx)
	if err != nil {
		s.report(fmt.Errorf("start recording: %w", err))
		return
	}

	s.mu.Lock()
	s.session = session
	s.state = domain.StateRecording
	s.mu.Unlock()

	s.logger.Debug("recording", zap.String("session", session.ID()), zap.String("path", session.Path()))
	s.events.StatusChanged(domain.StatusRecording)
}

func (s *Service) finishUtterance(ctx context.Context) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if err := session.Stop(); err != nil {
		s.report(fmt.Errorf("stop recording: %w", err))
	}
	s.sleep(s.cfg.SettleDelay)

	s.mu.Lock()
	s.session = nil
	s.state = domain.StateTranscribing
	s.mu.Unlock()
	s.events.StatusChanged(domain.StatusTranscribing)

	s.processUtterance(ctx, session)

	s.mu.Lock()
	s.state = domain.StateIdle
	s.mu.Unlock()
	s.events.StatusChanged(domain.StatusReady)
}

func (s *Service) processUtterance(ctx context.Context, session ports.Recording) {
	defer s.discard(session.Path())

	started := time.Now()
	text, err := s.transcriber.Transcribe(ctx, session.Path(), s.cfg.Language)
	if err != nil {
		s.reportUnlessCancelled(ctx, fmt.Errorf("transcribe: %w", err))
		return
	}
	s.logger.Debug("transcribed", zap.String("session", session.ID()), zap.Duration("took", time.Since(started)))

	if text == "" {
		s.logger.Info(noSpeechHint)
		return
	}

	s.events.Transcript(text)
	if err := s.paster.Paste(ctx, text); err != nil {
		s.reportUnlessCancelled(ctx, fmt.Errorf("paste: %w", err))
	}
}

func (s *Service) shutdown() {
	s.events.StatusChanged(domain.StatusStopping)

	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session != nil {
		if err := session.Stop(); err != nil {
			s.logger.Warn("stop recording during shutdown", zap.Error(err))
		}
		s.discard(session.Path())
	}

	if err := s.device.Close(); err != nil {
		s.logger.Debug("close input device", zap.Error(err))
	}

	s.mu.Lock()
	s.state = domain.StateStopped
	s.mu.Unlock()
	s.events.StatusChanged(domain.StatusStopped)
}

func (s *Service) deviceLost(err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", ErrDeviceLost, s.device.Path(), err)
	s.events.Error(wrapped)
	return wrapped
}

func (s *Service) discard(path string) {
	if err := s.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("remove recording", zap.String("path", path), zap.Error(err))
	}
}

func (s *Service) report(err error) {
	s.events.Error(err)
}

func (s *Service) reportUnlessCancelled(ctx context.Context, err error) {
	if ctx.Err() != nil {
		s.logger.Debug("utterance abandoned during shutdown", zap.Error(err))
		return
	}
	s.report(err)
}

const noSpeechHint = "No speech detected. Check mic mute and selected input device, then try again."
