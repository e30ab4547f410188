package discovery

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// fakeTransport answers requests by host:port and records the order of calls.
// Hosts missing from live are treated as connection failures; hosts in hang
// block until the request context is cancelled.
type fakeTransport struct {
	mu     sync.Mutex
	calls  []string
	live   map[string]int
	hang   map[string]bool
	ignore bool // ignore cancellation entirely when hanging
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		live: make(map[string]int),
		hang: make(map[string]bool),
	}
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.URL.String())
	status, ok := f.live[req.URL.Host]
	hang := f.hang[req.URL.Host]
	ignore := f.ignore
	f.mu.Unlock()

	if hang {
		if ignore {
			select {}
		}
		<-req.Context().Done()
		return nil, req.Context().Err()
	}

	if !ok {
		return nil, &refusedError{addr: req.URL.Host}
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(`{"status":"ok"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeTransport) client() *http.Client {
	return &http.Client{Transport: f}
}

type refusedError struct{ addr string }

func (e *refusedError) Error() string { return "dial tcp " + e.addr + ": connect: connection refused" }
