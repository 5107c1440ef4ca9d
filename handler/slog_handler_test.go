package handler

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Philipp01105/firelogger/core"
	"github.com/Philipp01105/firelogger/logger"
	"github.com/Philipp01105/firelogger/pickle"
)

func TestSlogHandler_LogsIntoContextSession(t *testing.T) {
	s := logger.NewSession()
	ctx := logger.NewContext(context.Background(), s)
	log := slog.New(NewSlogHandler(nil, ""))

	log.InfoContext(ctx, "hello", "user", "bob", slog.Group("req", "id", 7))

	records := s.Records()
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "go", r.Name)
	assert.Equal(t, core.InfoLevel, r.Level)
	assert.Equal(t, "hello", r.Template)
	assert.Equal(t, "slog_handler_test.go", filepath.Base(r.Pathname))
	require.Len(t, r.Args, 1)
	assert.Equal(t, pickle.Map{
		{Key: "user", Value: "bob"},
		{Key: "req", Value: pickle.Map{{Key: "id", Value: int64(7)}}},
	}, r.Args[0])
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	s := logger.NewSession()
	ctx := logger.NewContext(context.Background(), s)
	base := slog.New(NewSlogHandler(nil, "slog")).With("app", "demo")

	grouped := base.WithGroup("g").With("a", 1)
	grouped.InfoContext(ctx, "first", "b", 2)
	grouped.InfoContext(ctx, "second", "c", 3)
	base.InfoContext(ctx, "plain")

	records := s.Records()
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "slog", r.Name)
	}
	assert.Equal(t, pickle.Map{
		{Key: "app", Value: "demo"},
		{Key: "g", Value: pickle.Map{{Key: "a", Value: int64(1)}, {Key: "b", Value: int64(2)}}},
	}, records[0].Args[0])
	assert.Equal(t, pickle.Map{
		{Key: "app", Value: "demo"},
		{Key: "g", Value: pickle.Map{{Key: "a", Value: int64(1)}, {Key: "c", Value: int64(3)}}},
	}, records[1].Args[0])
	assert.Equal(t, pickle.Map{{Key: "app", Value: "demo"}}, records[2].Args[0])
}

func TestSlogHandler_NoAttrs(t *testing.T) {
	s := logger.NewSession()
	slog.New(NewSlogHandler(s, "")).Warn("bare")

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, core.WarningLevel, records[0].Level)
	assert.Empty(t, records[0].Args)
}

func TestSlogHandler_Fallback(t *testing.T) {
	fallback := logger.NewSession()
	h := NewSlogHandler(fallback, "")

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	slog.New(h).Error("no request")
	assert.Len(t, fallback.Records(), 1)

	noFallback := NewSlogHandler(nil, "")
	assert.False(t, noFallback.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, noFallback.Handle(context.Background(), slog.Record{Message: "dropped"}))
}

func TestSlogHandler_WithLevel(t *testing.T) {
	s := logger.NewSession()
	h := NewSlogHandler(s, "").WithLevel(slog.LevelWarn)
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))

	log := slog.New(h)
	log.Info("skip")
	log.Warn("keep")
	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "keep", records[0].Template)
}

func TestSlogLevelToCore(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  core.Level
	}{
		{slog.LevelDebug - 4, core.DebugLevel},
		{slog.LevelDebug, core.DebugLevel},
		{slog.LevelInfo, core.InfoLevel},
		{slog.LevelInfo + 2, core.InfoLevel},
		{slog.LevelWarn, core.WarningLevel},
		{slog.LevelError, core.ErrorLevel},
		{slog.LevelError + 4, core.CriticalLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slogLevelToCore(tt.level), tt.level.String())
	}
}
