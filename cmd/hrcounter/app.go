package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garrettladley/hrcounter/internal/assets"
	"github.com/garrettladley/hrcounter/internal/config"
	"github.com/garrettladley/hrcounter/internal/display"
	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/ingest"
	"github.com/garrettladley/hrcounter/internal/mirror"
	"github.com/garrettladley/hrcounter/internal/paths"
	"github.com/garrettladley/hrcounter/internal/redis"
	"github.com/garrettladley/hrcounter/internal/source"
	"github.com/garrettladley/hrcounter/internal/uiloop"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

// hooks are the host objects the core talks to.
type hooks struct {
	sink     display.TextSetter
	pauser   display.Pauser
	listener ingest.StateListener
}

// app wires exactly one coordinator, one ticker and one icon cache.
type app struct {
	cfg         config.Config
	logger      *slog.Logger
	slot        *hr.Slot
	coordinator *ingest.Coordinator
	ticker      *display.Ticker
	loop        *uiloop.Loop
	icons       *assets.Cache
	closers     []func() error
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, h hooks) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: logger,
		slot:   new(hr.Slot),
		loop:   uiloop.New(),
	}

	adapter, err := source.New(cfg.DataSource, append(cfg.SourceOptions(), source.WithLogger(logger))...)
	if err != nil {
		return nil, fmt.Errorf("failed to select data source: %w", err)
	}

	opts := append(cfg.IngestOptions(), ingest.WithLogger(logger))
	if h.listener != nil {
		opts = append(opts, ingest.WithStateListener(h.listener))
	}
	if cfg.Mirror.Enabled() {
		client, err := redis.New(ctx, redis.Config{URL: cfg.Mirror.RedisURL})
		if err != nil {
			logger.WarnContext(ctx, "redis mirror disabled", xslog.Error(err))
		} else {
			a.closers = append(a.closers, client.Close)
			opts = append(opts, ingest.WithPublisher(mirror.New(client, cfg.Mirror.Key, cfg.Mirror.TTL)))
		}
	}
	a.coordinator = ingest.New(adapter, cfg.Credential(), a.slot, opts...)

	tickerOpts := []display.Option{display.WithLogger(logger)}
	if h.pauser != nil {
		tickerOpts = append(tickerOpts, display.WithPauser(h.pauser))
	}
	sink := loopSink{ctx: ctx, loop: a.loop, sink: h.sink, logger: logger}
	a.ticker = display.NewTicker(cfg.DisplayConfig(), a.slot, sink, tickerOpts...)

	dir, err := iconsDir(cfg)
	if err != nil {
		return nil, err
	}
	a.icons = assets.New(dir, a.loop, assets.WithLogger(logger))

	return a, nil
}

// loopSink hands every text update to the UI loop, which owns the host text
// object. Updates posted after the loop has stopped are dropped.
type loopSink struct {
	ctx    context.Context
	loop   *uiloop.Loop
	sink   display.TextSetter
	logger *slog.Logger
}

func (s loopSink) SetText(text string) {
	err := s.loop.Post(s.ctx, func(context.Context) { s.sink.SetText(text) })
	if err != nil && !errors.Is(err, uiloop.ErrClosed) && s.ctx.Err() == nil {
		s.logger.WarnContext(s.ctx, "failed to post text update", xslog.Error(err))
	}
}

func iconsDir(cfg config.Config) (string, error) {
	if cfg.IconsDir != "" {
		return cfg.IconsDir, nil
	}
	return paths.Icons()
}

// start runs the UI loop, begins loading icons and, when enabled, starts
// ingestion and the ticker. Everything stops when ctx ends.
func (a *app) start(ctx context.Context) {
	a.logger.InfoContext(ctx, "starting",
		xslog.Version(),
		xslog.Source(a.cfg.DataSource.String()),
		xslog.Duration(a.cfg.Ingest.PollInterval),
	)

	go func() {
		if err := a.loop.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.ErrorContext(ctx, "ui loop stopped", xslog.Error(err))
		}
	}()
	<-a.loop.Started()

	if err := a.icons.Initialize(ctx); err != nil {
		a.logger.WarnContext(ctx, "icon cache unavailable", xslog.Error(err))
	}

	if !a.cfg.Enabled {
		a.logger.InfoContext(ctx, "heart rate disabled")
	} else if err := a.coordinator.Start(ctx); err != nil {
		a.logger.ErrorContext(ctx, "failed to start ingestion", xslog.Error(err))
	}

	go a.ticker.Run(ctx)
}

// close releases the source connection first, then icons and clients.
func (a *app) close(ctx context.Context) {
	a.ticker.Stop()
	a.coordinator.Stop()

	if err := a.icons.Close(ctx); err != nil {
		a.logger.WarnContext(ctx, "failed to release icons", xslog.Error(err))
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.WarnContext(ctx, "failed to close client", xslog.Error(err))
		}
	}
}
