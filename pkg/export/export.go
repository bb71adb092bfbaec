package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/vango-dev/loom/pkg/tree"
)

// ContentType is the content type of exported pages.
const ContentType = "text/html; charset=utf-8"

// Options configures Export.
type Options struct {
	Minify  bool
	Doctype bool
	Logger  *slog.Logger
}

// PageError reports the page an export failed on.
type PageError struct {
	Key string
	Err error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("export page %q: %v", e.Key, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Export renders every page and stores it as key + ".html". Pages are
// processed in key order; the first failure stops the export. It returns
// the stored keys.
func Export(ctx context.Context, store Store, pages map[string]func() *tree.Root, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	format := tree.FormatHTML
	if opts.Minify {
		format = tree.FormatMinified
	}

	var stored []string
	for _, key := range slices.Sorted(maps.Keys(pages)) {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		start := time.Now()
		body, err := renderPage(pages[key], tree.RenderOptions{Format: format, Doctype: opts.Doctype})
		if err != nil {
			return stored, &PageError{Key: key, Err: err}
		}
		file := key + ".html"
		if err := store.Put(ctx, file, ContentType, body); err != nil {
			return stored, &PageError{Key: key, Err: err}
		}
		stored = append(stored, file)
		logger.Info("page exported", "key", file, "bytes", len(body), "duration", time.Since(start))
	}
	return stored, nil
}

func renderPage(build func() *tree.Root, opts tree.RenderOptions) ([]byte, error) {
	root := build()
	if root == nil {
		return nil, fmt.Errorf("page builder returned no root")
	}
	var buf bytes.Buffer
	if err := root.RenderTo(&buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
