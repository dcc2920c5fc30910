package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shortlink-redirect/internal/config"
	"shortlink-redirect/internal/model"
	"shortlink-redirect/internal/worker"
)

type fakeVisitStore struct {
	mu          sync.Mutex
	identities  map[string]string
	items       []model.VisitQueueItem
	upsertErr   error
	enqueueErr  error
	enqueueWait chan struct{}
}

func newFakeVisitStore() *fakeVisitStore {
	return &fakeVisitStore{identities: map[string]string{}}
}

func (s *fakeVisitStore) UpsertIdentity(_ context.Context, ip string, newID func() string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return "", s.upsertErr
	}
	if id, ok := s.identities[ip]; ok {
		return id, nil
	}
	s.identities[ip] = newID()
	return s.identities[ip], nil
}

func (s *fakeVisitStore) Enqueue(_ context.Context, item *model.VisitQueueItem) error {
	if s.enqueueWait != nil {
		<-s.enqueueWait
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.items = append(s.items, *item)
	return nil
}

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

func TestVisitLoggerRecords(t *testing.T) {
	store := newFakeVisitStore()
	d := worker.NewDispatcher(8, 1, time.Second, zap.NewNop())
	l := NewVisitLogger(store, d, "production", "v1.2.0", zap.NewNop())

	l.Record("launch", VisitContext{IPAddress: "10.0.0.1", UserAgent: chromeUA})
	l.Record("launch", VisitContext{IPAddress: "10.0.0.1", UserAgent: chromeUA})
	require.NoError(t, d.Shutdown(context.Background()))

	require.Len(t, store.items, 2)
	item := store.items[0]
	assert.Equal(t, "launch", item.ShortPath)
	assert.Equal(t, "Chrome", item.Browser)
	assert.Equal(t, "Windows", item.OS)
	assert.Equal(t, "production", item.Environment)
	assert.Equal(t, "v1.2.0", item.Version)
	assert.NotEmpty(t, item.UserID)
	assert.False(t, item.VisitedAt.IsZero())
	assert.Equal(t, item.UserID, store.items[1].UserID)
}

func TestVisitLoggerIdentityFailureStillEnqueues(t *testing.T) {
	store := newFakeVisitStore()
	store.upsertErr = errors.New("store down")
	d := worker.NewDispatcher(8, 1, time.Second, zap.NewNop())
	l := NewVisitLogger(store, d, "test", "dev", zap.NewNop())

	l.Record("launch", VisitContext{IPAddress: "10.0.0.1"})
	require.NoError(t, d.Shutdown(context.Background()))

	require.Len(t, store.items, 1)
	assert.Empty(t, store.items[0].UserID)
	assert.Equal(t, "Unknown", store.items[0].Browser)
}

func TestVisitLoggerTruncatesLongUserAgent(t *testing.T) {
	store := newFakeVisitStore()
	d := worker.NewDispatcher(8, 1, time.Second, zap.NewNop())
	l := NewVisitLogger(store, d, "test", "dev", zap.NewNop())

	// 应用内 webview 的 UA 可能超过列宽
	ua := chromeUA + " " + strings.Repeat("é", 1000)
	require.Greater(t, len(ua), 2000)

	l.Record("launch", VisitContext{IPAddress: "10.0.0.1", UserAgent: ua})
	require.NoError(t, d.Shutdown(context.Background()))

	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.LessOrEqual(t, len(item.UserAgent), model.MaxUserAgentLen)
	assert.True(t, utf8.ValidString(item.UserAgent))
	assert.True(t, strings.HasPrefix(ua, item.UserAgent))
	assert.Equal(t, "Chrome", item.Browser)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "abc", truncateUTF8("abcdef", 3))
	// "é" 占两个字节，不能从中间截断
	assert.Equal(t, "a", truncateUTF8("aéb", 2))
	assert.Equal(t, "aé", truncateUTF8("aéb", 3))
}

func TestVisitLoggerEnqueueFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := newFakeVisitStore()
	store.enqueueErr = errors.New("relation visit_queue does not exist")
	d := worker.NewDispatcher(8, 1, time.Second, zap.New(core))
	l := NewVisitLogger(store, d, "test", "dev", zap.NewNop())

	l.Record("launch", VisitContext{IPAddress: "10.0.0.1"})
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("Background task failed").Len())
}

func TestVisitLoggerDoesNotBlock(t *testing.T) {
	store := newFakeVisitStore()
	store.enqueueWait = make(chan struct{})
	d := worker.NewDispatcher(1, 1, time.Second, zap.NewNop())
	l := NewVisitLogger(store, d, "test", "dev", zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			l.Record("launch", VisitContext{IPAddress: "10.0.0.1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a stalled store")
	}
	close(store.enqueueWait)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Greater(t, d.Dropped(), int64(0))
}

func TestNotifierPostsEvent(t *testing.T) {
	received := make(chan VisitEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		var ev VisitEvent
		assert.NoError(t, json.Unmarshal(body, &ev))
		received <- ev
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := worker.NewDispatcher(4, 1, time.Second, zap.NewNop())
	n := NewNotifier(config.WebhookConfig{URL: srv.URL, Timeout: time.Second}, d, zap.NewNop())
	require.True(t, n.Enabled())

	n.Notify(VisitEvent{ShortPath: "launch", IPAddress: "10.0.0.1", UserAgent: chromeUA, VisitedAt: time.Now()})
	require.NoError(t, d.Shutdown(context.Background()))

	ev := <-received
	assert.Equal(t, "launch", ev.ShortPath)
	assert.Equal(t, "10.0.0.1", ev.IPAddress)
}

func TestNotifierReportsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(config.WebhookConfig{URL: srv.URL}, nil, zap.NewNop())
	err := n.send(context.Background(), VisitEvent{ShortPath: "launch"})
	assert.ErrorContains(t, err, "502")
}

type countingSubmitter struct{ n int }

func (s *countingSubmitter) Submit(worker.Task) error {
	s.n++
	return nil
}

func TestNotifierDisabledWithoutURL(t *testing.T) {
	tasks := &countingSubmitter{}
	n := NewNotifier(config.WebhookConfig{}, tasks, zap.NewNop())
	assert.False(t, n.Enabled())
	n.Notify(VisitEvent{ShortPath: "launch"})
	assert.Equal(t, 0, tasks.n)
}
