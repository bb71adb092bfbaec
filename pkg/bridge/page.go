package bridge

import (
	"time"

	"github.com/vango-dev/loom/pkg/tree"
)

// PageAttr is the attribute of the rendered <html> element carrying the
// page token.
const PageAttr = "data-loom-page"

// Page is a rendered Root waiting for, or attached to, a live session.
type Page struct {
	token    string
	path     string
	root     *tree.Root
	loop     *Loop
	rendered time.Time

	// Guarded by Handler.mu.
	claimed bool
	session *Session
}

// Token returns the token the client presents to attach.
func (p *Page) Token() string { return p.token }

// Root returns the page tree. It may only be used on the page loop.
func (p *Page) Root() *tree.Root { return p.root }

// Loop returns the loop owning the page tree.
func (p *Page) Loop() *Loop { return p.loop }

// expired reports whether an unattached page outlived ttl.
func (p *Page) expired(now time.Time, ttl time.Duration) bool {
	return !p.claimed && ttl > 0 && now.Sub(p.rendered) > ttl
}
