package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/xerrors"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

// Phoenix channel events used by the HypeRate socket.
const (
	eventJoin      = "phx_join"
	eventReply     = "phx_reply"
	eventError     = "phx_error"
	eventClose     = "phx_close"
	eventHeartbeat = "heartbeat"
	eventHRUpdate  = "hr_update"

	topicPhoenix = "phoenix"
	replyOK      = "ok"
)

type phoenixMessage struct {
	Topic   string             `json:"topic"`
	Event   string             `json:"event"`
	Payload go_json.RawMessage `json:"payload"`
	Ref     *string            `json:"ref"`
}

type hrUpdatePayload struct {
	HR *int `json:"hr"`
}

type replyPayload struct {
	Status string `json:"status"`
}

type hypeRateAdapter struct {
	cfg *config
}

var _ Adapter = (*hypeRateAdapter)(nil)

func (a *hypeRateAdapter) Kind() Kind { return HypeRate }

func (a *hypeRateAdapter) Open(ctx context.Context, cred Credential) (Conn, error) {
	if cred.Empty() {
		return nil, configErr(HypeRate, "session id is empty")
	}
	if strings.TrimSpace(a.cfg.hypeRateAPIKey) == "" {
		return nil, configErr(HypeRate, "api key is empty")
	}
	u, err := url.Parse(a.cfg.hypeRateURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return nil, configErr(HypeRate, "socket url must be ws or wss")
	}
	q := u.Query()
	q.Set("token", a.cfg.hypeRateAPIKey)
	u.RawQuery = q.Encode()

	dialCtx, cancel := context.WithTimeout(ctx, a.cfg.dialTimeout)
	defer cancel()

	ws, _, err := websocket.Dial(dialCtx, u.String(), nil)
	if err != nil {
		return nil, xerrors.Transient(
			xerrors.WithSource(string(HypeRate)),
			xerrors.WithMessage("dialing socket"),
			xerrors.WithCause(err),
		)
	}
	ws.SetReadLimit(maxBody)

	topic := "hr:" + strings.TrimSpace(string(cred))
	if err := writePhoenix(dialCtx, ws, topic, eventJoin); err != nil {
		_ = ws.Close(websocket.StatusInternalError, "join failed")
		return nil, xerrors.Transient(
			xerrors.WithSource(string(HypeRate)),
			xerrors.WithMessage("joining channel"),
			xerrors.WithCause(err),
		)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	c := &hypeRateConn{
		ws:     ws,
		topic:  topic,
		cancel: runCancel,
		logger: a.cfg.logger,
	}
	c.wg.Add(2)
	go c.readLoop(runCtx)
	go c.heartbeatLoop(runCtx, a.cfg.heartbeatInterval)

	a.cfg.logger.InfoContext(ctx, "joining hyperate channel", xslog.Data(cred.String()))
	return c, nil
}

// hypeRateConn keeps only the newest frame; Receive drains it.
type hypeRateConn struct {
	ws     *websocket.Conn
	topic  string
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger

	latest atomic.Pointer[hr.Sample]

	mu      sync.Mutex
	failure error

	closeOnce sync.Once
}

var _ Conn = (*hypeRateConn)(nil)

func (c *hypeRateConn) Receive(_ context.Context) (hr.Sample, error) {
	if s := c.latest.Swap(nil); s != nil {
		return *s, nil
	}
	if err := c.err(); err != nil {
		return hr.Sample{}, xerrors.Transient(
			xerrors.WithSource(string(HypeRate)),
			xerrors.WithMessage("socket lost"),
			xerrors.WithCause(err),
		)
	}
	return hr.Sample{}, ErrNoUpdate
}

func (c *hypeRateConn) Close() error {
	c.closeOnce.Do(func() {
		// cancelling the read context tears the socket down
		c.cancel()
		_ = c.ws.Close(websocket.StatusNormalClosure, "closing")
		c.wg.Wait()
	})
	return nil
}

func (c *hypeRateConn) readLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.fail(err)
			}
			return
		}

		var msg phoenixMessage
		if err := go_json.Unmarshal(data, &msg); err != nil {
			c.logger.DebugContext(ctx, "dropping undecodable frame", xslog.Error(err))
			continue
		}

		switch msg.Event {
		case eventHRUpdate:
			var payload hrUpdatePayload
			if err := go_json.Unmarshal(msg.Payload, &payload); err != nil || payload.HR == nil || *payload.HR < 0 {
				c.logger.DebugContext(ctx, "dropping malformed hr_update", xslog.Data(string(msg.Payload)))
				continue
			}
			sample := hr.NewSample(*payload.HR)
			c.latest.Store(&sample)

		case eventReply:
			var reply replyPayload
			_ = go_json.Unmarshal(msg.Payload, &reply)
			if msg.Topic == c.topic && reply.Status != replyOK {
				c.fail(fmt.Errorf("join rejected: %s", reply.Status))
				return
			}

		case eventError, eventClose:
			if msg.Topic == c.topic {
				c.fail(errors.New("channel " + msg.Event))
				return
			}

		default:
			c.logger.DebugContext(ctx, "ignoring frame", xslog.Event(msg.Event))
		}
	}
}

func (c *hypeRateConn) heartbeatLoop(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := writePhoenix(ctx, c.ws, topicPhoenix, eventHeartbeat); err != nil {
				if ctx.Err() == nil {
					c.fail(err)
				}
				return
			}
		}
	}
}

func (c *hypeRateConn) fail(err error) {
	c.mu.Lock()
	if c.failure == nil {
		c.failure = err
	}
	c.mu.Unlock()
}

func (c *hypeRateConn) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

func writePhoenix(ctx context.Context, ws *websocket.Conn, topic, event string) error {
	ref := uuid.NewString()
	payload, err := go_json.Marshal(phoenixMessage{
		Topic:   topic,
		Event:   event,
		Payload: go_json.RawMessage(`{}`),
		Ref:     &ref,
	})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", event, err)
	}
	return ws.Write(ctx, websocket.MessageText, payload)
}
