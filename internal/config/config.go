package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/hrcounter/internal/display"
	appenv "github.com/garrettladley/hrcounter/internal/env"
	"github.com/garrettladley/hrcounter/internal/ingest"
	"github.com/garrettladley/hrcounter/internal/source"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

type Config struct {
	Env        appenv.Environment `env:"ENV" envDefault:"development"`
	LogLevel   xslog.Level        `env:"LOG_LEVEL" envDefault:"info"`
	Enabled    bool               `env:"ENABLED" envDefault:"true"`
	LogHR      bool               `env:"LOG_HR" envDefault:"false"`
	DataSource source.Kind        `env:"DATA_SOURCE" envDefault:"Pulsoid"`
	PauseHR    int                `env:"PAUSE_HR" envDefault:"200"`
	AutoPause  bool               `env:"AUTO_PAUSE" envDefault:"false"`
	IconsDir   string             `env:"ICONS_DIR"`
	Icon       string             `env:"ICON"`

	Credentials source.Credentials
	Endpoints   Endpoints
	Ingest      Ingest  `envPrefix:"INGEST_"`
	Display     Display `envPrefix:"DISPLAY_"`
	Mirror      Mirror  `envPrefix:"MIRROR_"`
}

type Endpoints struct {
	PulsoidURL       string `env:"PULSOID_URL" envDefault:"https://dev.pulsoid.net"`
	PulsoidWidgetURL string `env:"PULSOID_WIDGET_URL" envDefault:"https://pulsoid.net"`
	HypeRateURL      string `env:"HYPERATE_URL" envDefault:"wss://app.hyperate.io/socket/websocket"`
	HypeRateAPIKey   string `env:"HYPERATE_API_KEY"`
}

type Ingest struct {
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"750ms"`
	StaleAfter     int           `env:"STALE_AFTER" envDefault:"5"`
	Backoff        time.Duration `env:"BACKOFF" envDefault:"1s"`
	MaxBackoff     time.Duration `env:"MAX_BACKOFF" envDefault:"1s"`
}

type Display struct {
	Colorize    bool   `env:"COLORIZE" envDefault:"true"`
	HRLow       int    `env:"HR_LOW" envDefault:"120"`
	HRHigh      int    `env:"HR_HIGH" envDefault:"180"`
	LowColor    string `env:"LOW_COLOR" envDefault:"#00FF00"`
	MidColor    string `env:"MID_COLOR" envDefault:"#FFFF00"`
	HighColor   string `env:"HIGH_COLOR" envDefault:"#FF0000"`
	UseMidColor bool   `env:"USE_MID_COLOR" envDefault:"false"`
	Placeholder string `env:"PLACEHOLDER" envDefault:"NotSet"`
}

type Mirror struct {
	RedisURL string        `env:"REDIS_URL"`
	Key      string        `env:"KEY" envDefault:"hrcounter:bpm"`
	TTL      time.Duration `env:"TTL" envDefault:"10s"`
}

func (m Mirror) Enabled() bool { return m.RedisURL != "" }

func Read() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	return validated(cfg, err)
}

// Parse reads from environ instead of the process environment.
func Parse(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	return validated(cfg, err)
}

func validated(cfg Config, err error) (Config, error) {
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Ingest.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("INGEST_POLL_INTERVAL must be positive, got %s", c.Ingest.PollInterval))
	}
	if c.Ingest.RequestTimeout <= 0 || c.Ingest.RequestTimeout >= c.Ingest.PollInterval {
		errs = append(errs, fmt.Errorf("INGEST_REQUEST_TIMEOUT (%s) must be positive and shorter than INGEST_POLL_INTERVAL (%s)",
			c.Ingest.RequestTimeout, c.Ingest.PollInterval))
	}
	if c.Ingest.StaleAfter < 1 {
		errs = append(errs, fmt.Errorf("INGEST_STALE_AFTER must be at least 1, got %d", c.Ingest.StaleAfter))
	}
	if c.Ingest.Backoff <= 0 || c.Ingest.MaxBackoff < c.Ingest.Backoff {
		errs = append(errs, fmt.Errorf("INGEST_BACKOFF (%s) must be positive and no larger than INGEST_MAX_BACKOFF (%s)",
			c.Ingest.Backoff, c.Ingest.MaxBackoff))
	}
	if c.Mirror.Enabled() && c.Mirror.TTL <= 0 {
		errs = append(errs, fmt.Errorf("MIRROR_TTL must be positive, got %s", c.Mirror.TTL))
	}
	return errors.Join(errs...)
}

// Credential returns the credential for the selected data source.
func (c Config) Credential() source.Credential {
	return c.Credentials.For(c.DataSource)
}

func (c Config) SourceOptions() []source.Option {
	return []source.Option{
		source.WithRequestTimeout(c.Ingest.RequestTimeout),
		source.WithPulsoidURL(c.Endpoints.PulsoidURL),
		source.WithPulsoidWidgetURL(c.Endpoints.PulsoidWidgetURL),
		source.WithHypeRateURL(c.Endpoints.HypeRateURL),
		source.WithHypeRateAPIKey(c.Endpoints.HypeRateAPIKey),
	}
}

func (c Config) IngestOptions() []ingest.Option {
	return []ingest.Option{
		ingest.WithPollInterval(c.Ingest.PollInterval),
		ingest.WithStaleAfter(c.Ingest.StaleAfter),
		ingest.WithBackoff(c.Ingest.Backoff, c.Ingest.MaxBackoff),
		ingest.WithSampleLogging(c.LogHR),
	}
}

func (c Config) DisplayConfig() display.Config {
	return display.Config{
		Colorize:    c.Display.Colorize,
		HRLow:       c.Display.HRLow,
		HRHigh:      c.Display.HRHigh,
		LowColor:    c.Display.LowColor,
		MidColor:    c.Display.MidColor,
		HighColor:   c.Display.HighColor,
		UseMidColor: c.Display.UseMidColor,
		Placeholder: c.Display.Placeholder,
		PauseHR:     c.PauseHR,
		AutoPause:   c.AutoPause,
		Interval:    display.DefaultInterval,
	}
}
