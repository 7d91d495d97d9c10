package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgroundlab/webstack/internal/agents"
)

func newTestClient() *Client {
	c := NewClient(agents.NewPoolWith([]string{"test-agent/1.0"}, 1))
	c.SetTimeout(2 * time.Second)
	c.SetRetry(0, time.Millisecond, time.Millisecond)
	return c
}

func TestGetSendsRotatedAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	resp, err := newTestClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotAgent)
	assert.True(t, resp.OK())
	assert.Contains(t, resp.ContentType, "text/html")
	assert.Contains(t, string(resp.Body), "hi")
}

func TestGetSniffsMissingContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suppress the Content-Type header entirely
		w.Header()["Content-Type"] = nil
		w.Write([]byte("<!DOCTYPE html><html><body>page</body></html>"))
	}))
	defer srv.Close()

	resp, err := newTestClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ContentType, "text/html"))
}

func TestGetReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := newTestClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type countingMetrics struct {
	mu       sync.Mutex
	statuses []string
}

func (m *countingMetrics) RecordFetch(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func TestGetRecordsFetchOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	recorder := &countingMetrics{}
	c := newTestClient()
	c.SetMetrics(recorder)

	_, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	// Unreachable port: the failed fetch is recorded too
	_, err = c.Get(context.Background(), "http://127.0.0.1:1/")
	require.Error(t, err)

	assert.Equal(t, []string{"success", "error"}, recorder.statuses)
}

func TestSetRateLimitPacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient()
	c.SetRateLimit(50, 1)

	// Three requests at 50 rps cost at least two 20ms waits.
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestGetContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := newTestClient().Get(ctx, srv.URL)
	assert.Error(t, err)
}
