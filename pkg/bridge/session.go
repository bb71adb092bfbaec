package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	lerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/protocol"
	"github.com/vango-dev/loom/pkg/tree"
)

// ErrSessionClosed is returned when writing to a closed session.
var ErrSessionClosed = errors.New("bridge: session closed")

// SessionConfig holds the per-connection limits of a Session.
type SessionConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

// DefaultSessionConfig returns the limits used when none are configured.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// Session is one live websocket client attached to one page.
type Session struct {
	id     string
	conn   *websocket.Conn
	page   *Page
	codec  protocol.Codec
	config SessionConfig

	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger

	// mu serializes writes to conn.
	mu sync.Mutex

	// Owned by the page loop.
	pending []tree.Change
	seq     uint64
	cancel  func()

	ctx      context.Context
	stop     context.CancelFunc
	closed   atomic.Bool
	done     chan struct{}
	onClose  func(*Session)
	received atomic.Int64
}

func newSession(conn *websocket.Conn, page *Page, codec protocol.Codec, config SessionConfig, m *Metrics, tracer trace.Tracer, logger *slog.Logger) *Session {
	id := uuid.NewString()
	ctx, stop := context.WithCancel(context.Background())
	return &Session{
		id:      id,
		conn:    conn,
		page:    page,
		codec:   codec,
		config:  config,
		metrics: m,
		tracer:  tracer,
		logger:  logger.With("session", id, "page", page.token),
		ctx:     ctx,
		stop:    stop,
		done:    make(chan struct{}),
	}
}

// ID returns the session id sent to the client in the hello message.
func (s *Session) ID() string { return s.id }

// Page returns the page the session is attached to.
func (s *Session) Page() *Page { return s.page }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// start subscribes to the page's changes, greets the client and runs the
// read and ping loops. It returns once the session has ended. When it
// fails before subscribing, the caller still owns the connection.
func (s *Session) start(ctx context.Context) error {
	err := s.page.loop.Do(ctx, func() {
		s.cancel = s.page.root.OnModified(s.collect)
		s.page.loop.after = s.flush
	})
	if err != nil {
		return err
	}
	s.metrics.sessionOpened()

	hello, err := s.codec.EncodeHello(&protocol.Hello{Session: s.id, Encoding: s.codec.Encoding().String()})
	if err == nil {
		err = s.write(hello)
	}
	if err != nil {
		s.Close()
		return err
	}
	s.logger.Info("session started", "encoding", s.codec.Encoding())

	go s.pingLoop()
	s.readLoop()
	return nil
}

// collect runs on the page loop for every change of the Root.
func (s *Session) collect(c tree.Change) {
	s.pending = append(s.pending, c)
}

// flush runs on the page loop after every task and sends what the task
// changed as one batch.
func (s *Session) flush() {
	if len(s.pending) == 0 || s.closed.Load() {
		s.pending = s.pending[:0]
		return
	}
	s.seq++
	batch := &protocol.Batch{Seq: s.seq, Changes: s.pending}
	s.pending = nil

	data, err := s.codec.EncodeBatch(batch)
	if err != nil {
		s.logger.Error("batch encode error", "seq", batch.Seq, "error", err)
		s.sendError(protocol.NewFatalError(protocol.ErrServerError, "could not encode changes"))
		go s.Close()
		return
	}
	s.metrics.recordBatch(batch.Changes)
	if err := s.write(data); err != nil {
		s.logger.Error("batch write error", "seq", batch.Seq, "error", err)
		go s.Close()
		return
	}
	s.logger.Debug("batch sent", "seq", batch.Seq, "records", len(batch.Changes), "bytes", len(data))
}

// readLoop reads messages until the connection fails or the session is
// closed.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.received.Add(int64(len(msg)))

		decoded, err := s.codec.Decode(msg)
		if err != nil {
			s.logger.Warn("message decode error", "error", err)
			s.metrics.recordEvent(statusInvalid)
			s.sendError(protocol.NewError(protocol.ErrInvalidFrame, lerrors.New("E061").Wrap(err).Error()))
			continue
		}

		ev, ok := decoded.(*protocol.Event)
		if !ok {
			s.logger.Warn("unexpected message from client", "type", fmt.Sprintf("%T", decoded))
			s.metrics.recordEvent(statusInvalid)
			s.sendError(protocol.NewError(protocol.ErrInvalidFrame, "expected an event"))
			continue
		}
		s.queueEvent(ev)
	}
}

// queueEvent defers dispatch of ev onto the page loop.
func (s *Session) queueEvent(ev *protocol.Event) {
	err := s.page.loop.Defer(func() { s.dispatch(ev) })
	if err == nil {
		return
	}
	s.metrics.recordEvent(statusDropped)
	if errors.Is(err, ErrQueueFull) {
		s.logger.Warn("event queue full, dropping event", "node", ev.ID, "event", ev.Name)
		s.sendError(protocol.NewError(protocol.ErrQueueFull, lerrors.New("E063").Error()))
		return
	}
	s.sendError(protocol.NewFatalError(protocol.ErrSessionClosed, err.Error()))
}

// dispatch runs on the page loop: it resolves the node and runs its
// handlers.
func (s *Session) dispatch(ev *protocol.Event) {
	_, span := startEventSpan(s.ctx, s.tracer, s.id, ev.ID, ev.Name)
	var spanErr error
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panic",
				"node", ev.ID,
				"event", ev.Name,
				"panic", r,
				"stack", string(debug.Stack()))
			s.metrics.recordEvent(statusPanic)
			spanErr = fmt.Errorf("handler panic: %v", r)
			s.sendError(protocol.NewError(protocol.ErrHandlerPanic, "event handler failed"))
		}
		endSpan(span, spanErr)
	}()

	node, ok := s.page.root.Lookup(ev.ID)
	if !ok {
		lerr := lerrors.New("E062").WithNode(ev.ID)
		spanErr = lerr
		s.logger.Debug("event for unknown node", "node", ev.ID, "event", ev.Name)
		s.metrics.recordEvent(statusUnknown)
		s.sendError(protocol.NewError(protocol.ErrUnknownNode, lerr.Error()))
		return
	}
	if !node.Trigger(ev.Name, ev.Payload) {
		s.logger.Debug("event without handler", "node", ev.ID, "event", ev.Name)
		s.metrics.recordEvent(statusUnhandled)
		return
	}
	s.metrics.recordEvent(statusOK)
}

// pingLoop keeps the connection alive until the session ends.
func (s *Session) pingLoop() {
	if s.config.PingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.ping(); err != nil {
				s.logger.Debug("ping error", "error", err)
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
}

// write sends one encoded message.
func (s *Session) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	kind := websocket.TextMessage
	if s.codec.Binary() {
		kind = websocket.BinaryMessage
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(kind, data); err != nil {
		return err
	}
	s.metrics.recordFrame(len(data))
	return nil
}

// sendError reports a protocol error to the client.
func (s *Session) sendError(em *protocol.ErrorMessage) {
	data, err := s.codec.EncodeError(em)
	if err != nil {
		s.logger.Error("error encode error", "code", em.Code, "error", err)
		return
	}
	if err := s.write(data); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Error("error write error", "code", em.Code, "error", err)
	}
}

// Close ends the session. The page keeps running until its handler
// releases it.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	s.stop()

	// Unsubscribe on the loop; the page may already be gone.
	_ = s.page.loop.Defer(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.page.loop.after = nil
	})

	s.mu.Lock()
	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	s.conn.Close()
	s.mu.Unlock()

	s.metrics.sessionClosed()
	s.logger.Info("session closed", "bytes_received", s.received.Load())
	if s.onClose != nil {
		s.onClose(s)
	}
}
