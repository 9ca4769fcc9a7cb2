// Package source implements one adapter per heart-rate provider behind a
// single open/receive/close contract.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/xerrors"
	"github.com/garrettladley/hrcounter/internal/xhttp"
)

// ErrNoUpdate means the provider had nothing new. The connection stays open.
var ErrNoUpdate = errors.New("no update")

type Adapter interface {
	Kind() Kind
	// Open validates cred and connects. Malformed credentials fail with a
	// configuration error that must not be retried.
	Open(ctx context.Context, cred Credential) (Conn, error)
}

type Conn interface {
	// Receive never blocks longer than the request timeout. Misses return
	// ErrNoUpdate, a transient error or a decode error.
	Receive(ctx context.Context) (hr.Sample, error)
	Close() error
}

const (
	DefaultPulsoidURL       = "https://dev.pulsoid.net"
	DefaultPulsoidWidgetURL = "https://pulsoid.net"
	DefaultHypeRateURL      = "wss://app.hyperate.io/socket/websocket"

	DefaultRequestTimeout = 750 * time.Millisecond
	defaultDialTimeout    = 5 * time.Second
	defaultHeartbeat      = 10 * time.Second

	// maxBody bounds provider responses; every payload here is tiny.
	maxBody = 64 << 10
)

type config struct {
	httpClient        *http.Client
	requestTimeout    time.Duration
	dialTimeout       time.Duration
	heartbeatInterval time.Duration
	pulsoidURL        string
	widgetURL         string
	hypeRateURL       string
	hypeRateAPIKey    string
	logger            *slog.Logger
}

type Option func(*config)

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) { cfg.httpClient = c }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *config) { cfg.requestTimeout = d }
}

func WithPulsoidURL(u string) Option {
	return func(cfg *config) { cfg.pulsoidURL = u }
}

func WithPulsoidWidgetURL(u string) Option {
	return func(cfg *config) { cfg.widgetURL = u }
}

func WithHypeRateURL(u string) Option {
	return func(cfg *config) { cfg.hypeRateURL = u }
}

func WithHypeRateAPIKey(key string) Option {
	return func(cfg *config) { cfg.hypeRateAPIKey = key }
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(cfg *config) { cfg.heartbeatInterval = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// New is the only place a provider implementation is chosen.
func New(kind Kind, opts ...Option) (Adapter, error) {
	cfg := &config{
		requestTimeout:    DefaultRequestTimeout,
		dialTimeout:       defaultDialTimeout,
		heartbeatInterval: defaultHeartbeat,
		pulsoidURL:        DefaultPulsoidURL,
		widgetURL:         DefaultPulsoidWidgetURL,
		hypeRateURL:       DefaultHypeRateURL,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = xhttp.NewHTTPClient(xhttp.WithTimeout(cfg.requestTimeout))
	}
	cfg.logger = cfg.logger.With(slog.String("source", string(kind)))

	switch kind {
	case Pulsoid:
		return &pulsoidAdapter{cfg: cfg}, nil
	case PulsoidWidget:
		return &widgetAdapter{cfg: cfg}, nil
	case HypeRate:
		return &hypeRateAdapter{cfg: cfg}, nil
	case FeedLink:
		return &feedAdapter{cfg: cfg}, nil
	default:
		return nil, xerrors.Configuration(
			xerrors.WithMessage(fmt.Sprintf("unknown data source %q", string(kind))),
		)
	}
}

func configErr(kind Kind, msg string) error {
	return xerrors.Configuration(xerrors.WithSource(string(kind)), xerrors.WithMessage(msg))
}
