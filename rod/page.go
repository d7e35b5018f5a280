package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/postpdf"
	"github.com/go-rod/rod"
)

// Ensure Page implements postpdf.Page at compile time.
var _ postpdf.Page = (*Page)(nil)

// Page is a browser tab in its own incognito context.
// A Page must be used by one request at a time.
type Page struct {
	page      *rod.Page
	incognito *rod.Browser
	session   *Session

	once     sync.Once
	closeErr error
}

// Navigate loads url and waits for the load event.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Set context for all subsequent operations
	page := p.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return pageError(ctx, "navigating", err)
	}
	if err := page.WaitLoad(); err != nil {
		return pageError(ctx, "waiting for load", err)
	}
	return nil
}

// WaitElement polls until an element matching selector exists or ctx is done.
func (p *Page) WaitElement(ctx context.Context, selector string) error {
	if _, err := p.page.Context(ctx).Element(selector); err != nil {
		return pageError(ctx, "waiting for "+selector, err)
	}
	return nil
}

// Snapshot returns the rendered HTML and the URL after redirects.
func (p *Page) Snapshot(ctx context.Context) (*postpdf.Snapshot, error) {
	page := p.page.Context(ctx)

	html, err := page.HTML()
	if err != nil {
		return nil, pageError(ctx, "reading HTML", err)
	}

	info, err := page.Info()
	if err != nil {
		return nil, pageError(ctx, "reading page info", err)
	}

	return &postpdf.Snapshot{URL: info.URL, HTML: html}, nil
}

// Close closes the tab and its incognito context and releases the page from
// its session. Close is safe to call multiple times.
func (p *Page) Close() error {
	p.once.Do(func() {
		p.closeErr = p.close()
		p.session.release(p)
	})
	return p.closeErr
}

func (p *Page) close() error {
	err := p.page.Close()
	if cerr := p.incognito.Close(); err == nil {
		err = cerr
	}
	return err
}

// pageError reports a finished context as its own error so callers can tell
// timeouts from browser failures.
func pageError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
