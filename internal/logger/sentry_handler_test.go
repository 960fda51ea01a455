package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *capturedEvents) all() []*sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*sentry.Event(nil), c.events...)
}

func newTestHub(t *testing.T) (*sentry.Hub, *capturedEvents) {
	t.Helper()
	captured := &capturedEvents{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn: "https://public@sentry.invalid/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			captured.mu.Lock()
			captured.events = append(captured.events, event)
			captured.mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return sentry.NewHub(client, sentry.NewScope()), captured
}

func TestSentryHandler(t *testing.T) {
	tests := []struct {
		name      string
		log       func(l *slog.Logger)
		wantCount int
		check     func(t *testing.T, e *sentry.Event)
	}{
		{
			name:      "info is not reported",
			log:       func(l *slog.Logger) { l.Info("vote applied", "poll", "abc") },
			wantCount: 0,
		},
		{
			name: "error attribute becomes exception",
			log: func(l *slog.Logger) {
				l.With("chat", "42:7").Error("store failed", "error", errors.New("disk full"))
			},
			wantCount: 1,
			check: func(t *testing.T, e *sentry.Event) {
				if len(e.Exception) == 0 || e.Exception[len(e.Exception)-1].Value != "disk full" {
					t.Errorf("exception = %+v, want disk full", e.Exception)
				}
				if e.Tags["chat"] != "42:7" {
					t.Errorf("tag chat = %q, want 42:7", e.Tags["chat"])
				}
				if e.Extra["message"] != "store failed" {
					t.Errorf("extra message = %v", e.Extra["message"])
				}
			},
		},
		{
			name:      "error without cause is sent as message",
			log:       func(l *slog.Logger) { l.WithGroup("bot").Error("publish rejected", "code", 400) },
			wantCount: 1,
			check: func(t *testing.T, e *sentry.Event) {
				if e.Message != "publish rejected" {
					t.Errorf("message = %q", e.Message)
				}
				if e.Extra["bot.code"] != "400" {
					t.Errorf("extra bot.code = %v", e.Extra["bot.code"])
				}
			},
		},
		{
			name: "cancellation is dropped",
			log: func(l *slog.Logger) {
				l.Error("shutdown", "error", context.Canceled)
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, captured := newTestHub(t)
			base := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewSentryHandlerWithHub(base, hub))

			tt.log(l)

			events := captured.all()
			if len(events) != tt.wantCount {
				t.Fatalf("got %d events, want %d", len(events), tt.wantCount)
			}
			if tt.check != nil {
				tt.check(t, events[0])
			}
		})
	}
}

func TestSentryHandlerWithAttrsDoesNotLeak(t *testing.T) {
	hub, captured := newTestHub(t)
	base := slog.NewTextHandler(io.Discard, nil)
	l := slog.New(NewSentryHandlerWithHub(base, hub))

	_ = l.With("poll", "first")
	l.Error("plain", "error", errors.New("boom"))

	events := captured.all()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if _, ok := events[0].Tags["poll"]; ok {
		t.Errorf("tag from derived logger leaked into parent: %v", events[0].Tags)
	}
}
