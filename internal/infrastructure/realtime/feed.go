// Package realtime consumes the auth/database service's change feed over
// a websocket. Each Feed is one subscription: row-level INSERT/UPDATE/
// DELETE events for a single table, filtered server-side to one owning
// user. Reconnection is owned here; consumers only see the event stream.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/rbetancur/amg-desk-ai/internal/domain/request"
	sharedConfig "github.com/rbetancur/amg-desk-ai/internal/shared/config"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
	"github.com/rbetancur/amg-desk-ai/internal/shared/goroutine"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

const (
	writeWait        = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	maxMessageSize   = 1 << 20
	eventBuffer      = 256
)

// Dialer opens change-feed subscriptions.
type Dialer struct {
	wsURL       string
	table       string
	ownerColumn string
	heartbeat   time.Duration
	log         *slog.Logger
	wsDialer    *websocket.Dialer
}

// DialerOption configures the Dialer.
type DialerOption func(*Dialer)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) DialerOption {
	return func(d *Dialer) {
		d.log = log
	}
}

// NewDialer builds a dialer for the realtime endpoint of the auth
// service. The anon key authenticates the socket.
func NewDialer(authURL, anonKey string, cfg *sharedConfig.RealtimeConfig, opts ...DialerOption) (*Dialer, error) {
	wsURL, err := buildWSURL(authURL, anonKey)
	if err != nil {
		return nil, err
	}

	heartbeat := time.Duration(cfg.HeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}

	d := &Dialer{
		wsURL:       wsURL,
		table:       cfg.Table,
		ownerColumn: cfg.OwnerColumn,
		heartbeat:   heartbeat,
		log:         logger.WithComponent("realtime"),
		wsDialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// buildWSURL converts the auth service base URL into the websocket
// endpoint of its realtime component.
func buildWSURL(authURL, anonKey string) (string, error) {
	u, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("parse auth url: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		u.Scheme = "wss"
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/realtime/v1/websocket"

	q := u.Query()
	q.Set("apikey", anonKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Open establishes a subscription for rows owned by owner. The first
// dial happens synchronously so the caller sees connectivity errors;
// afterwards the feed reconnects on its own until Close or ctx
// cancellation.
func (d *Dialer) Open(ctx context.Context, owner string) (*Feed, error) {
	if owner == "" {
		return nil, apperrors.NewValidationError("A username is required to follow changes.")
	}

	f := &Feed{
		dialer: d,
		owner:  owner,
		topic:  "realtime:public:" + d.table,
		events: make(chan request.Event, eventBuffer),
		done:   make(chan struct{}),
		log:    d.log.With("owner", owner),
	}

	conn, err := f.dial(ctx)
	if err != nil {
		return nil, err
	}
	f.setConn(conn)

	goroutine.SafeGo(f.log, "realtime-feed", func() {
		f.run(ctx)
	})
	return f, nil
}

// Feed is one live subscription. Events carries normalized change
// events; it is closed when the feed shuts down.
type Feed struct {
	dialer *Dialer
	owner  string
	topic  string

	events  chan request.Event
	done    chan struct{}
	nextRef atomic.Int64

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	log *slog.Logger
}

// Events returns the normalized change event stream.
func (f *Feed) Events() <-chan request.Event {
	return f.events
}

// Close tears down the subscription. Safe to call more than once and on
// feeds that already shut down on their own.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.done)
	conn := f.conn
	f.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Feed) setConn(conn *websocket.Conn) {
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
}

func (f *Feed) currentConn() *websocket.Conn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conn
}

func (f *Feed) ref() string {
	return strconv.FormatInt(f.nextRef.Add(1), 10)
}

func (f *Feed) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := f.dialer.wsDialer.DialContext(ctx, f.dialer.wsURL, nil)
	if err != nil {
		details := fmt.Sprintf("dial %s: %v", f.dialer.wsURL, err)
		if resp != nil {
			details = fmt.Sprintf("dial %s: status=%d: %v", f.dialer.wsURL, resp.StatusCode, err)
		}
		return nil, apperrors.NewNetworkError("Cannot reach the change feed.", details)
	}
	return conn, nil
}

// run owns the connection lifecycle: pump until failure, then redial
// with exponential backoff. The events channel is closed on the way out;
// run is its only sender.
func (f *Feed) run(ctx context.Context) {
	defer close(f.events)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second

	for {
		err := f.pump(ctx)
		if f.isClosed() || ctx.Err() != nil {
			return
		}
		f.log.Warn("change feed disconnected", "error", err)

		for {
			wait := bo.NextBackOff()
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			case <-f.done:
				return
			}

			conn, err := f.dial(ctx)
			if err != nil {
				f.log.Warn("change feed reconnect failed", "error", err, "waited", wait)
				continue
			}
			f.setConn(conn)
			bo.Reset()
			break
		}
	}
}

// pump runs the read and write sides of one connection until either
// fails, then closes the connection so the other side unblocks.
func (f *Feed) pump(ctx context.Context) error {
	conn := f.currentConn()

	errCh := make(chan error, 2)
	stop := make(chan struct{})

	goroutine.SafeGo(f.log, "realtime-write", func() {
		errCh <- f.writePump(ctx, conn, stop)
	})
	goroutine.SafeGo(f.log, "realtime-read", func() {
		errCh <- f.readPump(conn)
	})

	err := <-errCh
	close(stop)
	conn.Close()
	<-errCh
	return err
}

// writePump joins the topic and keeps the connection alive with
// heartbeats. All writes to the connection happen here.
func (f *Feed) writePump(ctx context.Context, conn *websocket.Conn, stop chan struct{}) error {
	join, err := joinFrame(f.topic, f.dialer.table, f.dialer.ownerColumn, f.owner, f.ref())
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("join topic: %w", err)
	}

	ticker := time.NewTicker(f.dialer.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.sendClose(conn)
			return ctx.Err()

		case <-f.done:
			f.sendClose(conn)
			return nil

		case <-stop:
			return nil

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(heartbeatFrame(f.ref())); err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}
		}
	}
}

func (f *Feed) sendClose(conn *websocket.Conn) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump reads frames and dispatches normalized change events.
// Malformed frames and events that fail normalization are logged and
// dropped; they never tear down the subscription.
func (f *Feed) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	readWait := f.dialer.heartbeat*2 + writeWait

	for {
		conn.SetReadDeadline(time.Now().Add(readWait))
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		var fr frame
		if err := json.Unmarshal(message, &fr); err != nil {
			continue
		}

		switch fr.Event {
		case eventChanges:
			f.handleChange(&fr)
		case eventReply:
			var reply replyPayload
			if err := json.Unmarshal(fr.Payload, &reply); err == nil && reply.Status != "ok" {
				f.log.Warn("subscription rejected", "topic", fr.Topic, "response", string(reply.Response))
			}
		case eventError, eventClose:
			f.log.Warn("channel error", "topic", fr.Topic, "event", fr.Event)
		case eventSystem, eventHeartbeat:
			// liveness chatter
		}
	}
}

func (f *Feed) handleChange(fr *frame) {
	var payload changePayload
	if err := json.Unmarshal(fr.Payload, &payload); err != nil {
		f.log.Warn("dropping malformed change payload", "error", err)
		return
	}

	kind, err := request.ParseEventKind(payload.Data.Type)
	if err != nil {
		f.log.Warn("dropping change event", "error", err)
		return
	}

	image := payload.Data.Record
	if kind == request.EventDelete {
		image = payload.Data.OldRecord
	}

	row, err := request.NormalizeRow(image)
	if err != nil {
		f.log.Warn("dropping change event", "kind", string(kind), "error", err)
		return
	}

	ev := request.Event{Kind: kind, Row: row}
	select {
	case f.events <- ev:
	default:
		f.log.Warn("event buffer full, dropping change event", "kind", string(kind), "id", row.ID)
	}
}
