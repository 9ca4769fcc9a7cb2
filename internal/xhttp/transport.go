package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/hrcounter/internal/version"
)

const UserAgent = "User-Agent"

type hrcounterTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*hrcounterTransport)(nil)

func (t *hrcounterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())
	req.Header.Set(UserAgent, version.UserAgent())
	req.Header.Set(version.Header, version.Get())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper with standard hrcounter headers.
func NewTransport() http.RoundTripper {
	return &hrcounterTransport{base: http.DefaultTransport}
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
