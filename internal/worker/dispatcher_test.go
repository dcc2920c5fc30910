package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherRunsTasks(t *testing.T) {
	d := NewDispatcher(16, 2, time.Second, zap.NewNop())

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, d.Submit(Task{Name: "count", Run: func(context.Context) error {
			n.Add(1)
			return nil
		}}))
	}

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(10), n.Load())
	assert.ErrorIs(t, d.Submit(Task{Name: "late", Run: func(context.Context) error { return nil }}), ErrStopped)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, 1, time.Second, zap.NewNop())

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, d.Submit(Task{Name: "block", Run: func(context.Context) error {
		close(started)
		<-block
		return nil
	}}))
	<-started

	noop := Task{Name: "noop", Run: func(context.Context) error { return nil }}
	require.NoError(t, d.Submit(noop))
	assert.ErrorIs(t, d.Submit(noop), ErrQueueFull)
	assert.Equal(t, int64(1), d.Dropped())

	close(block)
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcherLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDispatcher(4, 1, time.Second, zap.New(core))

	require.NoError(t, d.Submit(Task{Name: "fail", Run: func(context.Context) error {
		return errors.New("store down")
	}}))
	require.NoError(t, d.Submit(Task{Name: "panic", Run: func(context.Context) error {
		panic("boom")
	}}))
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, 2, logs.FilterMessage("Background task failed").Len())
}

func TestDispatcherTaskTimeout(t *testing.T) {
	d := NewDispatcher(1, 1, 20*time.Millisecond, zap.NewNop())

	var ctxErr atomic.Value
	require.NoError(t, d.Submit(Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		ctxErr.Store(ctx.Err())
		return ctx.Err()
	}}))
	require.NoError(t, d.Shutdown(context.Background()))
	assert.ErrorIs(t, ctxErr.Load().(error), context.DeadlineExceeded)
}
