package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	common_models "go-catalog/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestWriter() *DBLogWriter {
	return &DBLogWriter{logChan: make(chan LogEntry, 10), appId: "test"}
}

func TestDBCoreForwardsWarnAndAbove(t *testing.T) {
	base, logs := observer.New(zapcore.DebugLevel)
	writer := newTestWriter()
	log := zap.New(NewDBCore(base, writer, zapcore.WarnLevel))

	log.Info("row accepted", zap.Int("row", 2))
	log.Warn("row skipped", zap.Int("row", 5))

	assert.Equal(t, 2, logs.Len(), "console core still receives every entry")
	require.Len(t, writer.logChan, 1)

	entry := <-writer.logChan
	assert.Equal(t, "row skipped", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.EqualValues(t, 5, entry.Fields["row"])
}

func TestDBCoreKeepsContextFields(t *testing.T) {
	base, _ := observer.New(zapcore.DebugLevel)
	writer := newTestWriter()
	log := zap.New(NewDBCore(base, writer, zapcore.WarnLevel)).With(zap.String("run_id", "abc"))

	log.Error("allocation failed", zap.String("warehouse_id", "w1"))

	require.Len(t, writer.logChan, 1)
	entry := <-writer.logChan
	assert.Equal(t, "abc", entry.Fields["run_id"])
	assert.Equal(t, "w1", entry.Fields["warehouse_id"])
}

func TestAddLogDropsWhenFull(t *testing.T) {
	writer := &DBLogWriter{logChan: make(chan LogEntry, 1)}

	writer.AddLog(LogEntry{Message: "first"})
	writer.AddLog(LogEntry{Message: "second"})

	require.Len(t, writer.logChan, 1)
	assert.Equal(t, "first", (<-writer.logChan).Message)
}

type recordedLogs struct {
	mu      sync.Mutex
	records []common_models.Log
}

func (r *recordedLogs) persist(ctx context.Context, record common_models.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *recordedLogs) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Message)
	}
	return out
}

func TestCloseDrainsBufferedEntries(t *testing.T) {
	recorded := &recordedLogs{}
	writer := newDBLogWriter(recorded.persist, "catalog", 10)

	writer.AddLog(LogEntry{Level: zapcore.WarnLevel, Message: "row skipped"})
	writer.AddLog(LogEntry{Level: zapcore.ErrorLevel, Message: "submit failed"})
	writer.AddLog(LogEntry{Level: zapcore.WarnLevel, Message: "allocation failed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, writer.Close(ctx))

	assert.Equal(t, []string{"row skipped", "submit failed", "allocation failed"}, recorded.messages())
	assert.Equal(t, "catalog", recorded.records[0].AppId)
	assert.Equal(t, 40, recorded.records[1].LogLevelId)

	writer.AddLog(LogEntry{Message: "after close"})
	assert.NoError(t, writer.Close(ctx), "closing twice is allowed")
	assert.Len(t, recorded.messages(), 3)
}

func TestCloseStopsWaitingWhenContextEnds(t *testing.T) {
	release := make(chan struct{})
	writer := newDBLogWriter(func(ctx context.Context, record common_models.Log) error {
		<-release
		return nil
	}, "catalog", 10)
	defer close(release)

	writer.AddLog(LogEntry{Message: "stuck"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, writer.Close(ctx), context.Canceled)
}

func TestMapLevelToInt(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  int
	}{
		{zapcore.DebugLevel, 10},
		{zapcore.InfoLevel, 20},
		{zapcore.WarnLevel, 30},
		{zapcore.ErrorLevel, 40},
		{zapcore.FatalLevel, 50},
		{zapcore.PanicLevel, 20},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, mapLevelToInt(tt.level))
		})
	}
}
