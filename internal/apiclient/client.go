package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/assistlink/internal/discovery"
	"github.com/muurk/assistlink/internal/logging"
	"github.com/muurk/assistlink/internal/version"
)

const (
	// DefaultRequestTimeout bounds a discovery-backed request
	DefaultRequestTimeout = 10 * time.Second

	// maxErrorBody caps how much of a non-2xx body is read for Detail
	maxErrorBody = 64 << 10
)

// Discoverer finds the base URL of a live backend
type Discoverer interface {
	FindAvailableServer(ctx context.Context) (string, bool)
}

// RequestOptions mirrors the options of a plain HTTP call.
// The zero value performs a GET with the client's default timeout.
type RequestOptions struct {
	// Method is the HTTP method (default: GET)
	Method string

	// Header is added to the request
	Header http.Header

	// Query is appended to the endpoint
	Query url.Values

	// Body is sent as-is. Ignored when JSON is set.
	Body io.Reader

	// JSON is marshalled as the request body with a JSON content type
	JSON any

	// Timeout overrides the client's request timeout for this call
	Timeout time.Duration
}

// Response is the result of a successful discovery-backed request
type Response struct {
	// Data is the decoded JSON body
	Data any `json:"data"`

	// ServerURL is the discovered base URL that served the request
	ServerURL string `json:"serverUrl"`

	// Status is the HTTP status code
	Status int `json:"status"`

	// Raw is the undecoded body, for typed decoding with Decode
	Raw json.RawMessage `json:"-"`
}

// Decode unmarshals the response body into v
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// Client performs HTTP requests against whichever backend is live right now.
// It keeps no state between calls: every request runs discovery again.
type Client struct {
	// Finder locates the backend (default: discovery.NewFinder over HTTPClient)
	Finder Discoverer

	// HTTPClient issues the actual requests
	HTTPClient *http.Client

	// RequestTimeout bounds each request (default: 10s)
	RequestTimeout time.Duration
}

// NewClient creates a client. A nil finder means the default loopback finder
// and a nil httpClient means http.DefaultClient.
func NewClient(finder Discoverer, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if finder == nil {
		finder = discovery.NewFinder(httpClient)
	}

	return &Client{
		Finder:         finder,
		HTTPClient:     httpClient,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// FindAvailableServer runs discovery and returns the live base URL
func (c *Client) FindAvailableServer(ctx context.Context) (string, bool) {
	return c.finder().FindAvailableServer(ctx)
}

// IsServerAvailable reports whether discovery finds any backend
func (c *Client) IsServerAvailable(ctx context.Context) bool {
	_, ok := c.FindAvailableServer(ctx)
	return ok
}

// Do discovers a backend and sends the request to <serverURL><endpoint>.
//
// Errors:
//   - no backend found: *Error with ErrTypeNoServer, no request is sent
//   - non-2xx answer: *Error with ErrTypeServer and the status code/text
//   - transport failure: *Error with a network type
//   - body is not JSON: the encoding/json error, unwrapped
func (c *Client) Do(ctx context.Context, endpoint string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	serverURL, ok := c.FindAvailableServer(ctx)
	if !ok {
		return nil, NewNoServerError()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.RequestTimeout
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := newRequest(ctx, serverURL, endpoint, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("%s %s failed", req.Method, endpoint), err, serverURL)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogRequest(req.Method, req.URL.String(), resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := NewServerError(resp.StatusCode, statusText(resp), serverURL)
		apiErr.Detail = errorDetail(resp.Body)
		return nil, apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err, serverURL)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	return &Response{
		Data:      data,
		ServerURL: serverURL,
		Status:    resp.StatusCode,
		Raw:       raw,
	}, nil
}

// Get is shorthand for Do with method GET
func (c *Client) Get(ctx context.Context, endpoint string) (*Response, error) {
	return c.Do(ctx, endpoint, &RequestOptions{Method: http.MethodGet})
}

// Post is shorthand for Do with method POST and a JSON body (nil for none)
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, endpoint, &RequestOptions{Method: http.MethodPost, JSON: body})
}

func newRequest(ctx context.Context, serverURL, endpoint string, opts *RequestOptions) (*http.Request, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := serverURL + endpoint
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + opts.Query.Encode()
	}

	body := opts.Body
	contentType := ""
	if opts.JSON != nil {
		encoded, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("failed to encode request body: %v", err))
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid request %s %s: %v", method, target, err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return req, nil
}

// statusText extracts "Internal Server Error" from "500 Internal Server Error"
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// errorDetail returns the "message" field of a JSON error body, if present
func errorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func (c *Client) finder() Discoverer {
	if c.Finder == nil {
		return discovery.NewFinder(c.httpClient())
	}
	return c.Finder
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// MakeServerRequest performs a discovery-backed request with default settings
func MakeServerRequest(ctx context.Context, endpoint string, opts *RequestOptions) (*Response, error) {
	return NewClient(nil, nil).Do(ctx, endpoint, opts)
}

// IsServerAvailable reports whether any default candidate is live
func IsServerAvailable(ctx context.Context) bool {
	return NewClient(nil, nil).IsServerAvailable(ctx)
}
