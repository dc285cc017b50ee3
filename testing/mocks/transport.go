// Package mocks provides hand-written test doubles with call tracking.
package mocks

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Response configures what the mock transport answers.
type Response struct {
	StatusCode int
	Body       string
}

// RequestRecord captures one request seen by the transport.
type RequestRecord struct {
	Method string
	URL    string // full URL including query
	Path   string
	Query  url.Values
	Body   string
	Header http.Header
}

// Transport is a recording http.RoundTripper. Responses are keyed by
// "METHOD /path" (query excluded); unmatched requests get Default. Setting
// Err makes every request fail at the network level.
//
// Safe for concurrent use; compound operations hit it from several
// goroutines at once.
type Transport struct {
	mu    sync.Mutex
	calls []RequestRecord

	Responses map[string]Response
	Default   Response
	Err       error
}

// NewTransport creates a transport that answers 200 {} to everything.
func NewTransport() *Transport {
	return &Transport{
		Responses: make(map[string]Response),
		Default:   Response{StatusCode: http.StatusOK, Body: "{}"},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(data)
	}

	t.mu.Lock()
	t.calls = append(t.calls, RequestRecord{
		Method: req.Method,
		URL:    req.URL.String(),
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Body:   body,
		Header: req.Header.Clone(),
	})
	err := t.Err
	resp, ok := t.Responses[req.Method+" "+req.URL.Path]
	if !ok {
		resp = t.Default
	}
	t.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return &http.Response{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Body:       io.NopCloser(bytes.NewReader([]byte(resp.Body))),
		Header:     http.Header{"Content-Type": []string{contentTypeFor(resp.Body)}},
		Request:    req,
	}, nil
}

func contentTypeFor(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "application/json"
	}
	return "text/plain"
}

// Calls returns a copy of every recorded request, in order.
func (t *Transport) Calls() []RequestRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]RequestRecord{}, t.calls...)
}

// CallCount returns how many requests the transport has seen.
func (t *Transport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// LastCall returns the most recent request, or nil when none was made.
func (t *Transport) LastCall() *RequestRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.calls) == 0 {
		return nil
	}
	record := t.calls[len(t.calls)-1]
	return &record
}

// Reset clears the recorded calls.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}
