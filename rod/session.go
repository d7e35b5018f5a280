package rod

import (
	"context"
	"errors"
	"sync"

	"github.com/fwojciec/postpdf"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements postpdf.Session at compile time.
var _ postpdf.Session = (*Session)(nil)

// Session is one running browser process. Each page lives in its own
// incognito context so cookies and storage never cross requests.
//
// Session is safe for concurrent use.
type Session struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	maxPages  int
	userAgent string
	viewport  proto.EmulationSetDeviceMetricsOverride

	mu      sync.Mutex
	pages   map[*Page]struct{}
	opened  int
	pending int
	retired bool
	closed  bool

	// onDrain, if set, runs after a retired session shuts down on its own.
	onDrain func(*Session)
}

func newSession(browser *rod.Browser, l *launcher.Launcher, maxPages int, ua string, vp proto.EmulationSetDeviceMetricsOverride) *Session {
	return &Session{
		browser:   browser,
		launcher:  l,
		maxPages:  maxPages,
		userAgent: ua,
		viewport:  vp,
		pages:     make(map[*Page]struct{}),
	}
}

// NewPage opens an isolated page with mobile emulation.
func (s *Session) NewPage(ctx context.Context) (postpdf.Page, error) {
	return s.newPage(ctx, true)
}

// newPage opens a page in a fresh incognito context. Mobile emulation is
// skipped for pages used to print documents.
func (s *Session) newPage(ctx context.Context, mobile bool) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.acquire(); err != nil {
		return nil, err
	}

	p, err := s.openPage(ctx, mobile)
	if err != nil {
		s.releaseSlot()
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = p.close()
		s.releaseSlot()
		return nil, postpdf.Errorf(postpdf.ELAUNCH, "browser session closed while opening page")
	}
	s.pages[p] = struct{}{}
	s.mu.Unlock()
	s.releaseSlot()

	return p, nil
}

func (s *Session) openPage(ctx context.Context, mobile bool) (*Page, error) {
	incognito, err := s.browser.Incognito()
	if err != nil {
		return nil, postpdf.Errorf(postpdf.ELAUNCH, "creating browser context: %v", err)
	}

	rp, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, postpdf.Errorf(postpdf.ELAUNCH, "creating page: %v", err)
	}

	p := &Page{page: rp, incognito: incognito, session: s}

	if mobile {
		if err := rp.Context(ctx).SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.userAgent}); err != nil {
			_ = p.close()
			return nil, pageError(ctx, "setting user agent", err)
		}
		vp := s.viewport
		if err := rp.Context(ctx).SetViewport(&vp); err != nil {
			_ = p.close()
			return nil, pageError(ctx, "setting viewport", err)
		}
	}

	return p, nil
}

// acquire reserves a page slot and retires the session once maxPages pages
// have been opened.
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return postpdf.Errorf(postpdf.ELAUNCH, "browser session is closed")
	}
	s.opened++
	if s.maxPages > 0 && s.opened >= s.maxPages {
		s.retired = true
	}
	s.pending++
	return nil
}

// releaseSlot drops a reservation taken by acquire.
func (s *Session) releaseSlot() {
	s.mu.Lock()
	s.pending--
	shutdown := s.drainedLocked()
	s.mu.Unlock()

	if shutdown {
		s.drain()
	}
}

// release forgets a closed page. A retired session shuts down when its last
// page is released.
func (s *Session) release(p *Page) {
	s.mu.Lock()
	delete(s.pages, p)
	shutdown := s.drainedLocked()
	s.mu.Unlock()

	if shutdown {
		s.drain()
	}
}

// drainedLocked reports whether a retired session has no outstanding pages
// and marks it closed if so.
// Must be called with mu held.
func (s *Session) drainedLocked() bool {
	if !s.retired || s.closed || len(s.pages) > 0 || s.pending > 0 {
		return false
	}
	s.closed = true
	return true
}

// drain shuts down a retired session whose last page was released.
func (s *Session) drain() {
	_ = s.shutdown()
	if s.onDrain != nil {
		s.onDrain(s)
	}
}

// isClosed reports whether the session has shut down.
func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// usable reports whether the session can serve new pages.
func (s *Session) usable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.retired
}

// Outstanding returns the number of open pages.
func (s *Session) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Close closes every outstanding page and terminates the browser process.
// Close is safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pages := make([]*Page, 0, len(s.pages))
	for p := range s.pages {
		pages = append(pages, p)
	}
	s.mu.Unlock()

	var errs []error
	for _, p := range pages {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.shutdown(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// shutdown closes the browser and kills the launcher process.
func (s *Session) shutdown() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}
