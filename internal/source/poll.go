package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/xerrors"
	"github.com/garrettladley/hrcounter/internal/xhttp"
)

type parseFunc func(body []byte) (int, error)

// pollConn issues one GET per Receive. Failures never close it.
type pollConn struct {
	kind    Kind
	client  *http.Client
	url     string
	accept  string
	timeout time.Duration
	parse   parseFunc
	closed  atomic.Bool
}

var _ Conn = (*pollConn)(nil)

func (c *pollConn) Receive(ctx context.Context) (hr.Sample, error) {
	if c.closed.Load() {
		return hr.Sample{}, c.transient("connection closed", net.ErrClosed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return hr.Sample{}, configErr(c.kind, fmt.Sprintf("creating request: %v", err))
	}
	if c.accept != "" {
		req.Header.Set("Accept", c.accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return hr.Sample{}, c.transient("executing request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return hr.Sample{}, ErrNoUpdate
	}
	if !xhttp.IsSuccess(resp.StatusCode) {
		return hr.Sample{}, c.transient("polling", xhttp.ParseStatusError(resp))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return hr.Sample{}, c.transient("reading response", err)
	}

	bpm, err := c.parse(body)
	if err != nil {
		return hr.Sample{}, xerrors.Decode(
			xerrors.WithSource(string(c.kind)),
			xerrors.WithMessage("decoding response"),
			xerrors.WithCause(err),
		)
	}
	if bpm < 0 {
		return hr.Sample{}, xerrors.Decode(
			xerrors.WithSource(string(c.kind)),
			xerrors.WithMessage(fmt.Sprintf("negative heart rate %d", bpm)),
		)
	}

	return hr.NewSample(bpm), nil
}

func (c *pollConn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.client.CloseIdleConnections()
	return nil
}

func (c *pollConn) transient(msg string, cause error) error {
	return xerrors.Transient(
		xerrors.WithSource(string(c.kind)),
		xerrors.WithMessage(msg),
		xerrors.WithCause(cause),
	)
}

var errMissingField = errors.New("missing heart rate field")
