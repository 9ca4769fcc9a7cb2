package xhttp

import (
	"fmt"
	"io"
	"net/http"

	go_json "github.com/goccy/go-json"
)

// MaxErrorBody bounds how much of an error response is read.
const MaxErrorBody = 4 << 10

type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Message)
}

// ParseStatusError builds a StatusError from a non-success response,
// preferring a JSON "message" or "error" field when the provider sends one.
func ParseStatusError(resp *http.Response) *StatusError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
	if err != nil || len(body) == 0 {
		return &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := go_json.Unmarshal(body, &errResp); err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
