package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/assistlink/internal/logging"
	"github.com/muurk/assistlink/internal/version"
)

const (
	// DefaultProbeTimeout bounds a single liveness probe
	DefaultProbeTimeout = 2 * time.Second

	// DefaultProbePath is the health endpoint every backend serves
	DefaultProbePath = "/ping"

	// maxDrainBytes caps how much of a probe response body is read before close
	maxDrainBytes = 4 << 10
)

// Prober decides whether a backend is live at a base URL.
// Implementations never return errors: every failure means "not live".
type Prober interface {
	Probe(ctx context.Context, baseURL string) bool
}

// HTTPProber probes a base URL with GET <baseURL><Path>
type HTTPProber struct {
	// Client issues the probe request. Its own Timeout is not relied on;
	// the probe deadline is applied through the request context.
	Client *http.Client

	// Timeout bounds the probe (default: 2s)
	Timeout time.Duration

	// Path is the health endpoint (default: "/ping")
	Path string
}

// NewHTTPProber creates a prober with default timeout and path
func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPProber{
		Client:  client,
		Timeout: DefaultProbeTimeout,
		Path:    DefaultProbePath,
	}
}

// Probe reports whether baseURL answered its health endpoint with a 2xx
// status before the timeout. The in-flight request is cancelled when the
// timeout expires.
func (p *HTTPProber) Probe(ctx context.Context, baseURL string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	path := p.Path
	if path == "" {
		path = DefaultProbePath
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	live, err := probeOnce(ctx, client, joinURL(baseURL, path), timeout)
	logging.LogProbe(baseURL, live, time.Since(start), err)

	return live
}

// Probe is a convenience wrapper that probes baseURL/ping with the given client
// and timeout. A zero timeout means DefaultProbeTimeout.
func Probe(ctx context.Context, client *http.Client, baseURL string, timeout time.Duration) bool {
	p := NewHTTPProber(client)
	if timeout > 0 {
		p.Timeout = timeout
	}
	return p.Probe(ctx, baseURL)
}

// probeOnce performs the request. The error is only used for logging.
func probeOnce(parent context.Context, client *http.Client, target string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", version.UserAgent())

	// The transport may ignore cancellation, so the deadline is also
	// enforced here and the result is discarded if it arrives late.
	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := client.Do(req)
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return false, r.err
		}
		defer func() { _ = r.resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, io.LimitReader(r.resp.Body, maxDrainBytes))

		if r.resp.StatusCode < 200 || r.resp.StatusCode > 299 {
			return false, fmt.Errorf("unexpected status code: %d", r.resp.StatusCode)
		}
		return true, nil

	case <-ctx.Done():
		go func() {
			if r := <-done; r.resp != nil {
				_ = r.resp.Body.Close()
			}
		}()
		return false, ctx.Err()
	}
}

// joinURL concatenates a base URL and a path without doubling the slash
func joinURL(baseURL, path string) string {
	if path == "" {
		return baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(baseURL, "/") + path
}
