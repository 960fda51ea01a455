package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"
)

func TestPollMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPollMetrics(reg)

	m.ObserveVote("cast", 20*time.Millisecond)
	m.ObserveVote("cast", 30*time.Millisecond)
	m.ObserveVote("retracted", 10*time.Millisecond)
	m.Promoted()
	m.StoreError("put")
	m.Rejected("unknown_option")

	if got := testutil.ToFloat64(m.Votes.WithLabelValues("cast")); got != 2 {
		t.Errorf("cast votes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Promotions); got != 1 {
		t.Errorf("promotions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StoreFailures.WithLabelValues("put")); got != 1 {
		t.Errorf("store failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RejectedEvents.WithLabelValues("unknown_option")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.ProcessingTime); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPollMetrics(reg).Promoted()

	tests := []struct {
		name     string
		path     string
		health   HealthFunc
		wantCode int
		wantBody string
	}{
		{"metrics", "/metrics", nil, http.StatusOK, "buttonpoll_promotions_total 1"},
		{"healthy", "/healthz", func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"unhealthy", "/healthz", func(context.Context) error { return errors.New("store down") }, http.StatusServiceUnavailable, "store down"},
		{"unknown path", "/polls", nil, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Router(reg, tt.health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, Router(prometheus.NewRegistry(), nil), slog.New(slog.DiscardHandler))
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("healthz = %q", body)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v", err)
	}
	http.DefaultClient.CloseIdleConnections()
}
