package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPProber_Defaults(t *testing.T) {
	p := NewHTTPProber(nil)

	assert.Equal(t, DefaultProbeTimeout, p.Timeout)
	assert.Equal(t, 2*time.Second, p.Timeout)
	assert.Equal(t, "/ping", p.Path)
	assert.Same(t, http.DefaultClient, p.Client)
}

func TestProbe_Success(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	assert.True(t, Probe(context.Background(), server.Client(), server.URL, 0))
	assert.Equal(t, "/ping", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestProbe_AnySuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	assert.True(t, Probe(context.Background(), server.Client(), server.URL, time.Second))
}

func TestProbe_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusMovedPermanently, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			// Don't follow the redirect: a 3xx probe answer is not live
			client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}}

			assert.False(t, Probe(context.Background(), client, server.URL, time.Second))
		})
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	assert.False(t, Probe(context.Background(), nil, url, time.Second))
}

func TestProbe_InvalidURL(t *testing.T) {
	assert.False(t, Probe(context.Background(), nil, "http://[::1", time.Second))
}

func TestProbe_TimeoutCancelsRequest(t *testing.T) {
	ft := newFakeTransport()
	ft.hang["127.0.0.1:5002"] = true

	p := NewHTTPProber(ft.client())
	p.Timeout = 50 * time.Millisecond

	start := time.Now()
	live := p.Probe(context.Background(), "http://127.0.0.1:5002")
	elapsed := time.Since(start)

	assert.False(t, live)
	assert.Less(t, elapsed, time.Second, "probe must resolve by its timeout")
}

func TestProbe_TimeoutWithTransportIgnoringCancellation(t *testing.T) {
	ft := newFakeTransport()
	ft.hang["127.0.0.1:5002"] = true
	ft.ignore = true

	p := NewHTTPProber(ft.client())
	p.Timeout = 50 * time.Millisecond

	start := time.Now()
	live := p.Probe(context.Background(), "http://127.0.0.1:5002")

	assert.False(t, live)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProbe_ParentCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, Probe(ctx, server.Client(), server.URL, time.Second))
}

func TestProbe_CustomPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer server.Close()

	p := NewHTTPProber(server.Client())
	p.Path = "health"

	require.True(t, p.Probe(context.Background(), server.URL+"/"))
	assert.Equal(t, "/health", gotPath)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://127.0.0.1:5002", "/ping", "http://127.0.0.1:5002/ping"},
		{"http://127.0.0.1:5002/", "/ping", "http://127.0.0.1:5002/ping"},
		{"http://127.0.0.1:5002", "ping", "http://127.0.0.1:5002/ping"},
		{"http://127.0.0.1:5002", "", "http://127.0.0.1:5002"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, joinURL(tt.base, tt.path))
	}
}
