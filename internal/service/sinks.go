package service

import (
	"github.com/fmueller/voxhold/internal/domain"
	"github.com/fmueller/voxhold/internal/ports"
	"go.uber.org/zap"
)

// LogSink writes service events to a zap logger.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) StatusChanged(status domain.Status) {
	s.logger().Info("status", zap.String("status", string(status)))
}

func (s LogSink) Transcript(text string) {
	s.logger().Info("transcript", zap.String("text", text))
}

func (s LogSink) Error(err error) {
	s.logger().Error("dictation error", zap.Error(err))
}

func (s LogSink) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ChannelSink forwards events, in emission order, to a buffered channel.
type ChannelSink struct {
	events chan domain.Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan domain.Event, buffer)}
}

func (s *ChannelSink) Events() <-chan domain.Event {
	return s.events
}

// Close ends the stream; call it only after the producing service has returned.
func (s *ChannelSink) Close() {
	close(s.events)
}

func (s *ChannelSink) StatusChanged(status domain.Status) {
	s.events <- domain.Event{Kind: domain.EventStatus, Status: status}
}

func (s *ChannelSink) Transcript(text string) {
	s.events <- domain.Event{Kind: domain.EventText, Text: text}
}

func (s *ChannelSink) Error(err error) {
	s.events <- domain.Event{Kind: domain.EventError, Err: err}
}

// MultiSink fans each event out to every sink in order.
type MultiSink []ports.EventSink

func (m MultiSink) StatusChanged(status domain.Status) {
	for _, sink := range m {
		sink.StatusChanged(status)
	}
}

func (m MultiSink) Transcript(text string) {
	for _, sink := range m {
		sink.Transcript(text)
	}
}

func (m MultiSink) Error(err error) {
	for _, sink := range m {
		sink.Error(err)
	}
}
