package bridge

import (
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/loom/pkg/protocol"
	"github.com/vango-dev/loom/pkg/tree"
)

var tokenPattern = regexp.MustCompile(PageAttr + `="([^"]+)"`)

// counterPage renders a button incrementing a counter span.
func counterPage(r *http.Request) (*tree.Root, error) {
	count := 0
	span := tree.Span(tree.ID("count"), "0")
	return tree.NewRoot(
		tree.Body(
			span,
			tree.Button(tree.ID("inc"), "+", tree.OnClick(func(tree.Event) {
				count++
				span.SetText(strconv.Itoa(count))
			})),
			tree.Div(tree.ID("boom"), tree.OnClick(func(tree.Event) {
				panic("handler failed")
			})),
		),
	), nil
}

type testServer struct {
	*httptest.Server
	handler *Handler
	codec   protocol.Codec
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	return newPageServer(t, opts, counterPage)
}

// newPageServer serves fn at "/".
func newPageServer(t *testing.T, opts Options, fn PageFunc) *testServer {
	t.Helper()
	h := NewHandler(opts)
	h.Page("/", fn)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return &testServer{Server: srv, handler: h, codec: protocol.NewCodec(opts.Encoding)}
}

// load fetches the page and returns its token.
func (ts *testServer) load(t *testing.T) string {
	t.Helper()
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d, body %s", resp.StatusCode, body)
	}
	m := tokenPattern.FindSubmatch(body)
	if m == nil {
		t.Fatalf("page has no %s attribute: %s", PageAttr, body)
	}
	return string(m[1])
}

func (ts *testServer) dial(t *testing.T, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?page=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

// attach loads the page, connects and consumes the hello message.
func (ts *testServer) attach(t *testing.T) (*websocket.Conn, string) {
	t.Helper()
	token := ts.load(t)
	conn, _, err := ts.dial(t, token)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	hello, ok := ts.read(t, conn).(*protocol.Hello)
	if !ok || hello.Session == "" {
		t.Fatalf("first message = %#v, want hello with a session id", hello)
	}
	if hello.Encoding != ts.codec.Encoding().String() {
		t.Errorf("hello encoding = %q, want %q", hello.Encoding, ts.codec.Encoding())
	}
	return conn, token
}

func (ts *testServer) read(t *testing.T, conn *websocket.Conn) any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	wantKind := websocket.TextMessage
	if ts.codec.Binary() {
		wantKind = websocket.BinaryMessage
	}
	if kind != wantKind {
		t.Errorf("message kind = %d, want %d", kind, wantKind)
	}
	msg, err := ts.codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", data, err)
	}
	return msg
}

func (ts *testServer) send(t *testing.T, conn *websocket.Conn, ev *protocol.Event) {
	t.Helper()
	data, err := ts.codec.EncodeEvent(ev)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	kind := websocket.TextMessage
	if ts.codec.Binary() {
		kind = websocket.BinaryMessage
	}
	if err := conn.WriteMessage(kind, data); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func readBatch(t *testing.T, ts *testServer, conn *websocket.Conn) *protocol.Batch {
	t.Helper()
	msg := ts.read(t, conn)
	b, ok := msg.(*protocol.Batch)
	if !ok {
		t.Fatalf("message = %#v, want *protocol.Batch", msg)
	}
	return b
}

func readError(t *testing.T, ts *testServer, conn *websocket.Conn) *protocol.ErrorMessage {
	t.Helper()
	msg := ts.read(t, conn)
	em, ok := msg.(*protocol.ErrorMessage)
	if !ok {
		t.Fatalf("message = %#v, want *protocol.ErrorMessage", msg)
	}
	return em
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServePage(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(string(body), "<!DOCTYPE html>") {
		t.Errorf("page does not start with a doctype: %s", body)
	}
	if !strings.Contains(string(body), `<span id="count">0</span>`) {
		t.Errorf("page misses the counter: %s", body)
	}
	if got := ts.handler.PageCount(); got != 1 {
		t.Errorf("PageCount() = %d, want 1", got)
	}
}

func TestServeClient(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())

	resp, err := http.Get(ts.URL + ClientPath)
	if err != nil {
		t.Fatalf("GET %s error = %v", ClientPath, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), PageAttr) {
		t.Errorf("client script does not read %s", PageAttr)
	}
	for _, name := range tree.EnumeratedAttrs() {
		if !strings.Contains(string(body), name+": true") {
			t.Errorf("client script does not treat %s as a true/false attribute", name)
		}
	}
}

// TestAttributeRecords checks the update records the client applies for
// extra attribute maps, true/false attributes and style maps, against the
// markup the server produces for the same change.
func TestAttributeRecords(t *testing.T) {
	markup := make(chan string, 1)
	ts := newPageServer(t, DefaultOptions(), func(*http.Request) (*tree.Root, error) {
		box := tree.Div(tree.ID("box"),
			tree.Attrs(map[string]string{"data-a": "1", "data-keep": "k"}),
			tree.Draggable(true),
		)
		return tree.NewRoot(tree.Body(
			box,
			tree.Button(tree.ID("go"), tree.OnClick(func(tree.Event) {
				box.Set("attrs", map[string]string{"data-b": "2", "data-keep": "k"})
				box.Set("draggable", false)
				box.Set("style", map[string]string{"top": "0", "color": "red"})
				out, _ := box.Render()
				markup <- out
			})),
		)), nil
	})
	conn, _ := ts.attach(t)
	ts.send(t, conn, &protocol.Event{ID: "go", Name: "click"})
	b := readBatch(t, ts, conn)

	byName := make(map[string]tree.Change)
	for _, c := range b.Changes {
		if c.ID == "box" && c.Type == tree.ChangeUpdate {
			byName[c.Name] = c
		}
	}
	tests := []struct {
		name string
		want any
		old  any
	}{
		{"attrs", map[string]any{"data-b": "2", "data-keep": "k"}, map[string]any{"data-a": "1", "data-keep": "k"}},
		{"draggable", false, true},
		{"style", map[string]any{"color": "red", "top": "0"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := byName[tt.name]
			if !ok {
				t.Fatalf("no update for %s in %v", tt.name, b.Changes)
			}
			if !reflect.DeepEqual(c.Value, tt.want) {
				t.Errorf("Value = %#v, want %#v", c.Value, tt.want)
			}
			if !reflect.DeepEqual(c.OldValue, tt.old) {
				t.Errorf("OldValue = %#v, want %#v", c.OldValue, tt.old)
			}
		})
	}

	var out string
	select {
	case out = <-markup:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not run")
	}
	for _, want := range []string{`data-b="2"`, `data-keep="k"`, `draggable="false"`, `style="color:red;top:0"`} {
		if !strings.Contains(out, want) {
			t.Errorf("markup = %s, want %s", out, want)
		}
	}
	if strings.Contains(out, "data-a") {
		t.Errorf("markup = %s, want data-a removed", out)
	}
}

func TestPageRenderError(t *testing.T) {
	h := NewHandler(DefaultOptions())
	defer h.Close()
	h.Page("/", func(*http.Request) (*tree.Root, error) {
		return tree.NewRoot(tree.Input(tree.Prop("disabled", "yes"))), nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "E005") {
		t.Errorf("body = %q, want error code E005", rec.Body.String())
	}
	if got := h.PageCount(); got != 0 {
		t.Errorf("PageCount() = %d, want 0", got)
	}
}

func TestSessionEvents(t *testing.T) {
	for _, enc := range []protocol.Encoding{protocol.EncodingJSON, protocol.EncodingBinary} {
		t.Run(enc.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Encoding = enc
			ts := newTestServer(t, opts)
			conn, _ := ts.attach(t)

			for i := 1; i <= 2; i++ {
				ts.send(t, conn, &protocol.Event{ID: "inc", Name: "click"})
				b := readBatch(t, ts, conn)
				if b.Seq != uint64(i) {
					t.Errorf("Seq = %d, want %d", b.Seq, i)
				}
				if len(b.Changes) != 1 {
					t.Fatalf("Changes = %v, want one record", b.Changes)
				}
				c := b.Changes[0]
				if c.ID != "count" || c.Type != tree.ChangeUpdate || c.Name != "text" {
					t.Errorf("record = %v, want update count.text", c)
				}
				if c.Value != strconv.Itoa(i) {
					t.Errorf("Value = %v, want %d", c.Value, i)
				}
			}
		})
	}
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	conn, _ := ts.attach(t)

	ts.send(t, conn, &protocol.Event{ID: "missing", Name: "click"})
	if em := readError(t, ts, conn); em.Code != protocol.ErrUnknownNode {
		t.Errorf("unknown node Code = %v, want %v", em.Code, protocol.ErrUnknownNode)
	}

	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	if em := readError(t, ts, conn); em.Code != protocol.ErrInvalidFrame {
		t.Errorf("bad message Code = %v, want %v", em.Code, protocol.ErrInvalidFrame)
	}

	ts.send(t, conn, &protocol.Event{ID: "boom", Name: "click"})
	if em := readError(t, ts, conn); em.Code != protocol.ErrHandlerPanic {
		t.Errorf("panic Code = %v, want %v", em.Code, protocol.ErrHandlerPanic)
	}

	// The session survives all of the above.
	ts.send(t, conn, &protocol.Event{ID: "inc", Name: "click"})
	if b := readBatch(t, ts, conn); len(b.Changes) != 1 {
		t.Errorf("Changes = %v, want one record", b.Changes)
	}
}

func TestUnhandledEventIsQuiet(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	conn, _ := ts.attach(t)

	ts.send(t, conn, &protocol.Event{ID: "count", Name: "click"})
	ts.send(t, conn, &protocol.Event{ID: "inc", Name: "click"})
	if b := readBatch(t, ts, conn); b.Seq != 1 {
		t.Errorf("Seq = %d, want 1", b.Seq)
	}
}

func TestDeferredChanges(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	conn, token := ts.attach(t)

	ts.handler.mu.Lock()
	p := ts.handler.pages[token]
	ts.handler.mu.Unlock()

	err := p.Loop().Defer(func() {
		n, _ := p.Root().Lookup("count")
		n.SetText("a")
		n.SetClass("hot")
	})
	if err != nil {
		t.Fatalf("Defer() error = %v", err)
	}
	b := readBatch(t, ts, conn)
	if len(b.Changes) != 2 {
		t.Fatalf("Changes = %v, want text and class records in one batch", b.Changes)
	}
	if b.Changes[1].Name != "class" {
		t.Errorf("second record = %v, want class update", b.Changes[1])
	}
}

func TestAttachRefused(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())

	_, resp, err := ts.dial(t, "no-such-page")
	if err == nil {
		t.Fatal("Dial() with unknown token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}

	_, token := ts.attach(t)
	if _, _, err := ts.dial(t, token); err == nil {
		t.Error("second Dial() to an attached page succeeded")
	}
}

func TestSessionCloseReleasesPage(t *testing.T) {
	ts := newTestServer(t, DefaultOptions())
	conn, _ := ts.attach(t)
	if got := ts.handler.PageCount(); got != 1 {
		t.Fatalf("PageCount() = %d, want 1", got)
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFor(t, "page release", func() bool { return ts.handler.PageCount() == 0 })
}

func TestPageExpiry(t *testing.T) {
	opts := DefaultOptions()
	opts.PageTTL = time.Minute
	ts := newTestServer(t, opts)

	ts.load(t)
	_, attached := ts.attach(t)

	ts.handler.sweep(time.Now().Add(time.Hour))
	if got := ts.handler.PageCount(); got != 1 {
		t.Fatalf("PageCount() after sweep = %d, want 1", got)
	}
	ts.handler.mu.Lock()
	_, ok := ts.handler.pages[attached]
	ts.handler.mu.Unlock()
	if !ok {
		t.Error("sweep discarded the attached page")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	opts := DefaultOptions()
	opts.Metrics = m
	ts := newTestServer(t, opts)
	conn, _ := ts.attach(t)

	ts.send(t, conn, &protocol.Event{ID: "missing", Name: "click"})
	readError(t, ts, conn)
	ts.send(t, conn, &protocol.Event{ID: "inc", Name: "click"})
	readBatch(t, ts, conn)

	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues(statusOK)); got != 1 {
		t.Errorf("events_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues(statusUnknown)); got != 1 {
		t.Errorf("events_total{unknown_node} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.recordsTotal.WithLabelValues("update")); got != 1 {
		t.Errorf("records_total{update} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.renderDuration); got != 1 {
		t.Errorf("render_duration_seconds series = %d, want 1", got)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"loom_events_total", "loom_records_total", "loom_frames_sent_total", "loom_active_sessions"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("/metrics misses %s", name)
		}
	}
}
