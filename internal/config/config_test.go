package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/hrcounter/internal/display"
	appenv "github.com/garrettladley/hrcounter/internal/env"
	"github.com/garrettladley/hrcounter/internal/source"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(map[string]string{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Config{
		Env:        appenv.Development,
		LogLevel:   xslog.LevelInfo,
		Enabled:    true,
		DataSource: source.Pulsoid,
		PauseHR:    200,
		Endpoints: Endpoints{
			PulsoidURL:       source.DefaultPulsoidURL,
			PulsoidWidgetURL: source.DefaultPulsoidWidgetURL,
			HypeRateURL:      source.DefaultHypeRateURL,
		},
		Ingest: Ingest{
			PollInterval:   time.Second,
			RequestTimeout: 750 * time.Millisecond,
			StaleAfter:     5,
			Backoff:        time.Second,
			MaxBackoff:     time.Second,
		},
		Display: Display{
			Colorize:    true,
			HRLow:       120,
			HRHigh:      180,
			LowColor:    "#00FF00",
			MidColor:    "#FFFF00",
			HighColor:   "#FF0000",
			Placeholder: "NotSet",
		},
		Mirror: Mirror{
			Key: "hrcounter:bpm",
			TTL: 10 * time.Second,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(display.DefaultConfig(), cfg.DisplayConfig()); diff != "" {
		t.Errorf("DisplayConfig() differs from display defaults (-want +got):\n%s", diff)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(map[string]string{
		"ENV":                   "production",
		"LOG_LEVEL":             "DEBUG",
		"DATA_SOURCE":           "hyperate",
		"HYPERATE_SESSION_ID":   "abc123",
		"PULSOID_TOKEN":         "token",
		"FEED_LINK":             "https://example.com/bpm",
		"DISPLAY_HR_LOW":        "100",
		"DISPLAY_USE_MID_COLOR": "true",
		"AUTO_PAUSE":            "true",
		"PAUSE_HR":              "190",
		"INGEST_MAX_BACKOFF":    "8s",
		"MIRROR_REDIS_URL":      "redis://localhost:6379/0",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Env != appenv.Production || cfg.LogLevel != xslog.LevelDebug {
		t.Errorf("env/level = %s/%s, want production/debug", cfg.Env, cfg.LogLevel)
	}
	if cfg.DataSource != source.HypeRate {
		t.Errorf("DataSource = %s, want HypeRate", cfg.DataSource)
	}
	if got := cfg.Credential(); got != "abc123" {
		t.Errorf("Credential() = %q, want the HypeRate session", string(got))
	}
	if cfg.Credentials.PulsoidToken != "token" || cfg.Credentials.FeedLink != "https://example.com/bpm" {
		t.Errorf("other credentials lost: %+v", cfg.Credentials)
	}

	d := cfg.DisplayConfig()
	if d.HRLow != 100 || !d.UseMidColor || !d.AutoPause || d.PauseHR != 190 {
		t.Errorf("DisplayConfig() = %+v", d)
	}
	if cfg.Ingest.MaxBackoff != 8*time.Second {
		t.Errorf("MaxBackoff = %s, want 8s", cfg.Ingest.MaxBackoff)
	}
	if !cfg.Mirror.Enabled() {
		t.Error("Mirror.Enabled() = false with a redis URL")
	}
}

func TestParseLegacyWebRequest(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(map[string]string{"DATA_SOURCE": "WebRequest"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.DataSource != source.FeedLink {
		t.Errorf("DataSource = %s, want FeedLink", cfg.DataSource)
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
	}{
		{name: "unknown source", environ: map[string]string{"DATA_SOURCE": "Polar"}},
		{name: "bad level", environ: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad env", environ: map[string]string{"ENV": "staging"}},
		{name: "timeout not shorter than poll", environ: map[string]string{"INGEST_REQUEST_TIMEOUT": "1s"}},
		{name: "stale below one", environ: map[string]string{"INGEST_STALE_AFTER": "0"}},
		{name: "max backoff below backoff", environ: map[string]string{"INGEST_BACKOFF": "2s"}},
		{name: "mirror ttl", environ: map[string]string{"MIRROR_REDIS_URL": "redis://x", "MIRROR_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse(tt.environ); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}
