package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fmueller/voxhold/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultStopTimeout = 2 * time.Second

// Controller launches one capture subprocess per recording.
type Controller struct {
	Backend     Backend
	TempDir     string
	StopTimeout time.Duration
	Logger      *zap.Logger
}

func NewController(backend Backend, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{Backend: backend, StopTimeout: DefaultStopTimeout, Logger: logger}
}

// Start reserves a temp file and spawns the backend against it without waiting for audio.
func (c *Controller) Start(ctx context.Context) (ports.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Backend == nil {
		return nil, fmt.Errorf("%w: %w", ErrStartFailed, ErrNoBackendAvailable)
	}

	id := uuid.NewString()
	path, err := reserveFile(c.tempDir(), "voxhold-"+id+".wav")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStartFailed, err)
	}

	command := c.Backend.Command(path)
	cmd := exec.Command(command.Binary, command.Args...) //nolint:gosec // backend binaries are fixed
	if err := cmd.Start(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %s: %w", ErrStartFailed, c.Backend.Name(), err)
	}

	session := &Session{
		id:          id,
		path:        path,
		backend:     c.Backend.Name(),
		cmd:         cmd,
		done:        make(chan struct{}),
		stopTimeout: c.stopTimeout(),
		logger:      c.logger(),
	}
	go session.wait()

	session.logger.Debug("recording started", zap.String("backend", session.backend), zap.String("path", path), zap.Int("pid", cmd.Process.Pid))
	return session, nil
}

func (c *Controller) tempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}

func (c *Controller) stopTimeout() time.Duration {
	if c.StopTimeout <= 0 {
		return DefaultStopTimeout
	}
	return c.StopTimeout
}

func (c *Controller) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func reserveFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}
	return path, f.Close()
}

// Session is one live capture subprocess and the file it writes.
type Session struct {
	id          string
	path        string
	backend     string
	cmd         *exec.Cmd
	done        chan struct{}
	waitErr     error
	stopTimeout time.Duration
	logger      *zap.Logger

	stopOnce sync.Once
	stopErr  error
}

func (s *Session) ID() string { return s.id }

func (s *Session) Path() string { return s.path }

func (s *Session) wait() {
	s.waitErr = s.cmd.Wait()
	close(s.done)
}

// Stop interrupts the recorder so it can finalise the WAV header, and kills it after the stop
// timeout. Calling Stop more than once returns the first result.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.stop()
	})
	return s.stopErr
}

func (s *Session) stop() error {
	select {
	case <-s.done:
		if s.waitErr != nil {
			s.logger.Warn("recorder exited before stop", zap.String("backend", s.backend), zap.Error(s.waitErr))
		}
		return nil
	default:
	}

	if err := s.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Debug("interrupt recorder", zap.Error(err))
	}

	timer := time.NewTimer(s.stopTimeout)
	defer timer.Stop()

	select {
	case <-s.done:
		return s.exitError()
	case <-timer.C:
	}

	s.logger.Warn("recorder ignored interrupt, killing it", zap.String("backend", s.backend), zap.Duration("timeout", s.stopTimeout))
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill %s: %w", s.backend, err)
	}
	<-s.done
	return nil
}

func (s *Session) exitError() error {
	if s.waitErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(s.waitErr, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			s.logger.Debug("recording process stopped by signal", zap.String("signal", status.Signal().String()))
			return nil
		}
		// arecord and ffmpeg report a non-zero status after a clean SIGINT shutdown.
		s.logger.Debug("recording process exited after stop signal", zap.Error(s.waitErr))
		return nil
	}
	return fmt.Errorf("%s: %w", s.backend, s.waitErr)
}
