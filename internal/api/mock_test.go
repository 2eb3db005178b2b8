package api

import (
	"errors"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
)

// mockHTTPClient is a fake transport that records the last request
type mockHTTPClient struct {
	doFunc      func(req *fhttp.Request) (*fhttp.Response, error)
	lastRequest *fhttp.Request
	lastBody    string
	calls       int
}

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.calls++
	m.lastRequest = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.lastBody = string(data)
	}
	if m.doFunc == nil {
		return nil, errors.New("no response configured")
	}
	return m.doFunc(req)
}

// respondWith returns a doFunc that answers with a fixed status and body
func respondWith(status int, body string) func(req *fhttp.Request) (*fhttp.Response, error) {
	return func(req *fhttp.Request) (*fhttp.Response, error) {
		return &fhttp.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(fhttp.Header),
		}, nil
	}
}

// timeoutError mimics a net.Error timeout from the transport
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
