// Package bridge serves page trees to browsers and keeps them live.
//
// A Handler renders a fresh tree.Root for every page request and remembers
// it under a page token for a short time. The browser then opens a
// websocket at /ws?page=<token>; the resulting Session forwards the Root's
// change records as batches and dispatches client events back to nodes by
// id.
//
// # Threading
//
// A tree is not safe for concurrent use. Every page owns a Loop, a single
// goroutine that runs all work touching its Root: rendering, event
// handlers and anything scheduled with Defer. Code outside the loop that
// wants to change a page, such as a timer or a background fetch, must
// submit a function:
//
//	page.Loop().Defer(func() {
//	    counter.SetText(strconv.Itoa(n))
//	})
//
// Changes emitted while a function runs are sent to the client as one
// batch once it returns.
//
// # Wire format
//
// Messages use the pkg/protocol codecs. With the JSON encoding every
// message is a text frame holding one object; with the binary encoding
// every message is a binary frame holding one protocol frame. The first
// message of a session is a hello carrying the session id.
package bridge
