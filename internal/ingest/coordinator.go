// Package ingest owns the lifecycle of the one active source adapter and
// publishes every decoded sample to the shared slot.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/source"
	"github.com/garrettladley/hrcounter/internal/xerrors"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

const (
	DefaultPollInterval   = 1 * time.Second
	DefaultStaleAfter     = 5
	defaultPublishTimeout = 500 * time.Millisecond
)

var (
	ErrRunning = errors.New("coordinator is running")
	ErrFailed  = errors.New("coordinator failed; reconfigure to continue")
	errStale   = errors.New("source went stale")
)

// Publisher receives every sample after it has been stored in the slot.
type Publisher interface {
	Publish(ctx context.Context, kind source.Kind, sample hr.Sample) error
}

// StateListener is called after every state change, outside any lock.
type StateListener func(from, to State)

type Coordinator struct {
	slot           *hr.Slot
	logger         *slog.Logger
	pollInterval   time.Duration
	staleAfter     int
	backoffInitial time.Duration
	backoffMax     time.Duration
	publishTimeout time.Duration
	publishers     []Publisher
	listeners      []StateListener
	logSamples     bool

	mu      sync.Mutex
	adapter source.Adapter
	cred    source.Credential
	state   State
	lastErr error
	cancel  context.CancelFunc
	done    chan struct{}
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.pollInterval = d }
}

// WithStaleAfter sets how many consecutive misses drop a connection.
func WithStaleAfter(n int) Option {
	return func(c *Coordinator) { c.staleAfter = n }
}

// WithBackoff enables doubling reconnect delays capped at max.
func WithBackoff(initial, max time.Duration) Option {
	return func(c *Coordinator) {
		c.backoffInitial = initial
		c.backoffMax = max
	}
}

func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publishers = append(c.publishers, p) }
}

func WithStateListener(l StateListener) Option {
	return func(c *Coordinator) { c.listeners = append(c.listeners, l) }
}

// WithSampleLogging logs every sample at info level.
func WithSampleLogging(enabled bool) Option {
	return func(c *Coordinator) { c.logSamples = enabled }
}

func New(adapter source.Adapter, cred source.Credential, slot *hr.Slot, opts ...Option) *Coordinator {
	c := &Coordinator{
		slot:           slot,
		logger:         slog.Default(),
		pollInterval:   DefaultPollInterval,
		staleAfter:     DefaultStaleAfter,
		backoffInitial: DefaultBackoff,
		backoffMax:     DefaultBackoff,
		publishTimeout: defaultPublishTimeout,
		adapter:        adapter,
		cred:           cred,
		state:          Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.staleAfter < 1 {
		c.staleAfter = 1
	}
	return c
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the configuration error that moved the coordinator to Failed.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Coordinator) Kind() source.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter.Kind()
}

// Start launches the connection loop. It only leaves Idle; a Failed
// coordinator must be reconfigured first.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Idle:
	case Failed:
		err := c.lastErr
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrFailed, err)
	default:
		c.mu.Unlock()
		return ErrRunning
	}

	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.lastErr = nil
	c.cancel = cancel
	c.done = done
	adapter, cred := c.adapter, c.cred
	from, _ := c.setState(Connecting)
	c.mu.Unlock()

	c.notify(adapter.Kind(), from, Connecting)
	go c.run(runCtx, adapter, cred, done)
	return nil
}

// Stop cancels the loop and returns once the adapter connection is closed.
// It is safe to call from any state, more than once, and concurrently with
// an in-flight receive. The coordinator always ends in Idle, unless a Start
// wins the race after the old loop has exited.
//
// Stopping a Failed coordinator clears the failure. A later Start retries
// the same adapter and credential and fails again unless the cause was
// outside the credential; Reconfigure is the way to supply a new one.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	c.mu.Lock()
	if c.done != nil {
		c.mu.Unlock()
		return
	}
	from, changed := c.setState(Idle)
	kind := c.adapter.Kind()
	c.mu.Unlock()

	if changed {
		c.notify(kind, from, Idle)
	}
}

// Reconfigure swaps the adapter and credential of a stopped or failed
// coordinator and returns it to Idle.
func (c *Coordinator) Reconfigure(adapter source.Adapter, cred source.Credential) error {
	c.mu.Lock()
	if c.state.Running() {
		c.mu.Unlock()
		return ErrRunning
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.adapter = adapter
	c.cred = cred
	c.lastErr = nil
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	c.transition(Idle)
	return nil
}

func (c *Coordinator) run(ctx context.Context, adapter source.Adapter, cred source.Credential, done chan struct{}) {
	defer close(done)

	kind := adapter.Kind()
	logger := c.logger.With(xslog.Source(string(kind)))
	bo := newBackoff(c.backoffInitial, c.backoffMax)

	for {
		err := c.session(ctx, logger, adapter, cred, bo)
		if ctx.Err() != nil {
			c.transition(Idle)
			return
		}
		if xerrors.IsConfiguration(err) {
			logger.ErrorContext(ctx, "source misconfigured, halting", xslog.Error(err))
			c.mu.Lock()
			c.lastErr = err
			c.mu.Unlock()
			c.transition(Failed)
			return
		}

		c.transition(Reconnecting)
		wait := bo.next()
		logger.WarnContext(ctx, "source connection lost, reconnecting",
			xslog.Error(err),
			xslog.Backoff(wait),
		)

		// wait before reconnecting using timer to avoid memory leak
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.transition(Idle)
			return
		case <-timer.C:
		}
		c.transition(Connecting)
	}
}

// session opens one connection and receives on a fixed cadence until the
// source goes stale, fails, or ctx ends. The connection is closed before it
// returns.
func (c *Coordinator) session(ctx context.Context, logger *slog.Logger, adapter source.Adapter, cred source.Credential, bo *backoff) error {
	conn, err := adapter.Open(ctx, cred)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.WarnContext(ctx, "failed to close source connection", xslog.Error(err))
		}
	}()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var misses int
	for {
		sample, err := conn.Receive(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch {
		case err == nil:
			misses = 0
			bo.reset()
			c.slot.Store(sample)
			if c.logSamples {
				logger.InfoContext(ctx, "heart rate", xslog.BPM(sample.BPM))
			}
			c.publish(ctx, logger, adapter.Kind(), sample)
			c.transition(Live)

		case xerrors.IsConfiguration(err):
			return err

		default:
			misses++
			logMiss(ctx, logger, err, misses)
			if xerrors.IsTransient(err) && c.State() == Connecting {
				return err
			}
			if misses >= c.staleAfter {
				return fmt.Errorf("%w after %d misses: %w", errStale, misses, err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Coordinator) publish(ctx context.Context, logger *slog.Logger, kind source.Kind, sample hr.Sample) {
	for _, p := range c.publishers {
		pubCtx, cancel := context.WithTimeout(ctx, c.publishTimeout)
		if err := p.Publish(pubCtx, kind, sample); err != nil && ctx.Err() == nil {
			logger.WarnContext(ctx, "failed to publish sample", xslog.Error(err))
		}
		cancel()
	}
}

func (c *Coordinator) transition(to State) {
	c.mu.Lock()
	from, changed := c.setState(to)
	kind := c.adapter.Kind()
	c.mu.Unlock()

	if changed {
		c.notify(kind, from, to)
	}
}

// setState must be called with c.mu held.
func (c *Coordinator) setState(to State) (State, bool) {
	from := c.state
	if from == to {
		return from, false
	}
	c.state = to
	return from, true
}

func (c *Coordinator) notify(kind source.Kind, from, to State) {
	c.logger.Debug("source state changed",
		xslog.Source(string(kind)),
		xslog.Transition(from.String(), to.String()),
	)
	for _, l := range c.listeners {
		l(from, to)
	}
}

func logMiss(ctx context.Context, logger *slog.Logger, err error, misses int) {
	switch {
	case errors.Is(err, source.ErrNoUpdate):
		logger.DebugContext(ctx, "no update", xslog.Misses(misses))
	case xerrors.IsDecode(err):
		logger.DebugContext(ctx, "discarding undecodable payload", xslog.Error(err), xslog.Misses(misses))
	default:
		logger.WarnContext(ctx, "poll failed", xslog.Error(err), xslog.Misses(misses))
	}
}
