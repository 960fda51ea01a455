package logger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler wraps an slog.Handler and reports error records to Sentry.
// Attributes added with WithAttrs (poll and chat keys, component names)
// travel with the event as tags.
type SentryHandler struct {
	handler slog.Handler
	hub     *sentry.Hub
	tags    map[string]string
	group   string
}

// NewSentryHandler reports through the current global hub.
func NewSentryHandler(handler slog.Handler) *SentryHandler {
	return NewSentryHandlerWithHub(handler, sentry.CurrentHub())
}

func NewSentryHandlerWithHub(handler slog.Handler, hub *sentry.Hub) *SentryHandler {
	return &SentryHandler{handler: handler, hub: hub, tags: map[string]string{}}
}

func (h *SentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		h.report(r)
	}
	return h.handler.Handle(ctx, r)
}

func (h *SentryHandler) report(r slog.Record) {
	var cause error
	extra := map[string]any{}
	r.Attrs(func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok && a.Key == "error" {
			cause = err
			return true
		}
		extra[h.key(a.Key)] = a.Value.String()
		return true
	})

	// Shutdown noise.
	if errors.Is(cause, context.Canceled) {
		return
	}

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(h.tags)
		scope.SetExtras(extra)
		scope.SetExtra("message", r.Message)
		if cause != nil {
			h.hub.CaptureException(cause)
			return
		}
		h.hub.CaptureMessage(r.Message)
	})
}

func (h *SentryHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tags := make(map[string]string, len(h.tags)+len(attrs))
	for k, v := range h.tags {
		tags[k] = v
	}
	for _, a := range attrs {
		tags[h.key(a.Key)] = a.Value.String()
	}
	return &SentryHandler{handler: h.handler.WithAttrs(attrs), hub: h.hub, tags: tags, group: h.group}
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	return &SentryHandler{handler: h.handler.WithGroup(name), hub: h.hub, tags: h.tags, group: h.key(name)}
}
