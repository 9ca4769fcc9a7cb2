package xhttp

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   *StatusError
	}{
		{
			name:   "json message",
			status: http.StatusUnauthorized,
			body:   `{"message":"token expired"}`,
			want:   &StatusError{StatusCode: http.StatusUnauthorized, Message: "token expired"},
		},
		{
			name:   "json error field",
			status: http.StatusForbidden,
			body:   `{"error":"insufficient scope"}`,
			want:   &StatusError{StatusCode: http.StatusForbidden, Message: "insufficient scope"},
		},
		{
			name:   "plain body",
			status: http.StatusBadGateway,
			body:   "upstream down",
			want:   &StatusError{StatusCode: http.StatusBadGateway, Message: "upstream down"},
		},
		{
			name:   "empty body",
			status: http.StatusServiceUnavailable,
			want:   &StatusError{StatusCode: http.StatusServiceUnavailable, Message: "Service Unavailable"},
		},
		{
			name:   "json without fields",
			status: http.StatusNotFound,
			body:   `{}`,
			want:   &StatusError{StatusCode: http.StatusNotFound, Message: "Not Found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			if diff := cmp.Diff(tt.want, ParseStatusError(resp)); diff != "" {
				t.Errorf("ParseStatusError() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
