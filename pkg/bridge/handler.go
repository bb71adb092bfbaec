package bridge

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	lerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/protocol"
	"github.com/vango-dev/loom/pkg/tree"
)

//go:embed client.js
var clientJS []byte

// ClientPath is where the browser client script is served.
const ClientPath = "/loom.js"

// PageFunc builds a fresh Root for a request. It runs on the new page's
// loop.
type PageFunc func(r *http.Request) (*tree.Root, error)

// Options configures a Handler.
type Options struct {
	// Encoding is the wire format of sessions.
	Encoding protocol.Encoding

	// Session holds the per-connection limits.
	Session SessionConfig

	// EventQueue is the capacity of every page loop.
	EventQueue int

	// PageTTL is how long a rendered page waits for its session before it
	// is discarded. Zero keeps pages until the handler closes.
	PageTTL time.Duration

	// Render controls page serialization. Attrs is ignored.
	Render tree.RenderOptions

	// StaticDir is served under /static/ when set.
	StaticDir string

	// Metrics are recorded when set and served at MetricsPath.
	Metrics     *Metrics
	MetricsPath string

	// Tracer creates render and event spans. Nil disables tracing.
	Tracer trace.Tracer

	// CheckOrigin validates websocket origins. Nil allows same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

// DefaultOptions returns the options used by NewHandler for zero fields.
func DefaultOptions() Options {
	return Options{
		Encoding:    protocol.EncodingJSON,
		Session:     DefaultSessionConfig(),
		EventQueue:  DefaultQueueSize,
		PageTTL:     2 * time.Minute,
		Render:      tree.RenderOptions{Doctype: true},
		MetricsPath: "/metrics",
	}
}

// Handler serves pages and their live sessions.
type Handler struct {
	router   chi.Router
	opts     Options
	upgrader websocket.Upgrader
	codec    protocol.Codec
	tracer   trace.Tracer
	logger   *slog.Logger

	mu    sync.Mutex
	pages map[string]*Page

	done      chan struct{}
	closeOnce sync.Once
}

// NewHandler creates a Handler. Register pages with Page.
func NewHandler(opts Options) *Handler {
	def := DefaultOptions()
	if opts.Session.ReadTimeout <= 0 {
		opts.Session.ReadTimeout = def.Session.ReadTimeout
	}
	if opts.Session.WriteTimeout <= 0 {
		opts.Session.WriteTimeout = def.Session.WriteTimeout
	}
	if opts.Session.MaxMessageSize <= 0 {
		opts.Session.MaxMessageSize = def.Session.MaxMessageSize
	}
	if opts.EventQueue <= 0 {
		opts.EventQueue = def.EventQueue
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = def.MetricsPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noopTracer()
	}

	h := &Handler{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		codec:  protocol.NewCodec(opts.Encoding),
		tracer: tracer,
		logger: logger.With("component", "bridge"),
		pages:  make(map[string]*Page),
		done:   make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Get("/ws", h.serveWebSocket)
	r.Get(ClientPath, serveClient)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
	}
	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	h.router = r

	if opts.PageTTL > 0 {
		go h.janitor(opts.PageTTL)
	}
	return h
}

// Page serves fn at pattern, a chi route pattern.
func (h *Handler) Page(pattern string, fn PageFunc) {
	h.router.Get(pattern, func(w http.ResponseWriter, r *http.Request) {
		h.servePage(w, r, fn)
	})
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// PageCount returns the number of pages held, attached or not.
func (h *Handler) PageCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pages)
}

// Close ends every session and discards every page.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	pages := make([]*Page, 0, len(h.pages))
	for _, p := range h.pages {
		pages = append(pages, p)
	}
	h.mu.Unlock()

	for _, p := range pages {
		h.mu.Lock()
		s := p.session
		h.mu.Unlock()
		if s != nil {
			s.Close()
		}
		h.release(p)
	}
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, fn PageFunc) {
	token := uuid.NewString()
	ctx, span := startRenderSpan(r.Context(), h.tracer, r.URL.Path, token)

	p := &Page{
		token: token,
		path:  r.URL.Path,
		loop:  NewLoop(h.opts.EventQueue, h.logger),
	}
	var buf bytes.Buffer
	start := time.Now()
	var renderErr error
	err := p.loop.Do(ctx, func() {
		defer func() {
			if rec := recover(); rec != nil {
				renderErr = fmt.Errorf("page panic: %v", rec)
			}
		}()
		p.root, renderErr = fn(r)
		if renderErr != nil {
			return
		}
		opts := h.opts.Render
		opts.Attrs = []tree.Attr{tree.Prop(PageAttr, token)}
		renderErr = p.root.RenderTo(&buf, opts)
	})
	if err == nil {
		err = renderErr
	}
	h.opts.Metrics.recordRender(time.Since(start))
	endSpan(span, err)

	if err != nil {
		p.loop.Close()
		lerr := lerrors.FromTree(err)
		h.logger.Error("page render failed", "path", r.URL.Path, "code", lerr.Code, "error", err)
		http.Error(w, lerr.Error(), http.StatusInternalServerError)
		return
	}

	p.rendered = time.Now()
	h.mu.Lock()
	h.pages[token] = p
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("page write failed", "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("page")
	p, err := h.claim(token)
	if err != nil {
		h.logger.Warn("live connection refused", "page", token, "error", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "code", "E060", "error", err)
		h.unclaim(p)
		return
	}

	s := newSession(conn, p, h.codec, h.opts.Session, h.opts.Metrics, h.tracer, h.logger)
	s.onClose = func(*Session) { h.release(p) }
	h.mu.Lock()
	p.session = s
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.opts.Session.WriteTimeout)
	defer cancel()
	if err := s.start(ctx); err != nil && !s.closed.Load() {
		h.logger.Error("session start failed", "page", token, "error", err)
		conn.Close()
		h.release(p)
	}
}

// claim reserves an unattached page for a session.
func (h *Handler) claim(token string) (*Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pages[token]
	if !ok || p.claimed {
		return nil, lerrors.New("E064").WithDetail("no page is waiting for token " + token)
	}
	p.claimed = true
	return p, nil
}

func (h *Handler) unclaim(p *Page) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p.claimed = false
}

// release forgets a page and stops its loop.
func (h *Handler) release(p *Page) {
	h.mu.Lock()
	_, ok := h.pages[p.token]
	delete(h.pages, p.token)
	h.mu.Unlock()
	if ok {
		p.loop.Close()
	}
}

// janitor discards pages nobody attached to.
func (h *Handler) janitor(ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			h.sweep(now)
		case <-h.done:
			return
		}
	}
}

func (h *Handler) sweep(now time.Time) {
	h.mu.Lock()
	var stale []*Page
	for _, p := range h.pages {
		if p.expired(now, h.opts.PageTTL) {
			stale = append(stale, p)
		}
	}
	h.mu.Unlock()
	for _, p := range stale {
		h.logger.Debug("page expired", "page", p.token, "path", p.path)
		h.release(p)
	}
}

func serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(clientJS)
}
