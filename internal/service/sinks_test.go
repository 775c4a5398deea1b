package service

import (
	"errors"
	"testing"

	"github.com/fmueller/voxhold/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestChannelSinkPreservesOrder(t *testing.T) {
	t.Parallel()

	sink := NewChannelSink(8)
	sink.StatusChanged(domain.StatusRecording)
	sink.Transcript("hello")
	sink.Error(errors.New("boom"))
	sink.Close()

	var kinds []domain.EventKind
	for ev := range sink.Events() {
		kinds = append(kinds, ev.Kind)
	}
	require.Equal(t, []domain.EventKind{domain.EventStatus, domain.EventText, domain.EventError}, kinds)
}

func TestMultiSinkFansOut(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	channel := NewChannelSink(4)
	recorder := &recordingSink{}
	sink := MultiSink{LogSink{Logger: zap.New(core)}, channel, recorder}

	sink.StatusChanged(domain.StatusReady)
	sink.Transcript("hello world")
	sink.Error(errors.New("paste failed"))

	require.Equal(t, 3, logs.Len())
	require.Equal(t, "transcript", logs.All()[1].Message)
	require.Equal(t, zapcore.ErrorLevel, logs.All()[2].Level)
	require.Equal(t, []domain.Status{domain.StatusReady}, recorder.statuses)
	require.Len(t, channel.Events(), 3)
}

func TestLogSinkWithoutLoggerIsSilent(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		LogSink{}.StatusChanged(domain.StatusReady)
		LogSink{}.Error(errors.New("x"))
	})
}
