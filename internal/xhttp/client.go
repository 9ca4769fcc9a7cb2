package xhttp

import (
	"net/http"
	"time"
)

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

// WithTransport replaces the base round tripper; the version headers are
// still stamped on every request.
func WithTransport(base http.RoundTripper) ClientOption {
	return func(c *http.Client) { c.Transport = &hrcounterTransport{base: base} }
}

func NewHTTPClient(opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
