// Package rod implements the headless browser session on Chrome using go-rod.
package rod

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/postpdf"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure SessionManager implements postpdf.SessionManager at compile time.
var _ postpdf.SessionManager = (*SessionManager)(nil)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// DefaultUserAgent is a mobile Safari user agent. Mobile rendering paths
// produce a simpler DOM.
const DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"

// DefaultViewport is a phone-sized viewport rendered at 2x.
var DefaultViewport = proto.EmulationSetDeviceMetricsOverride{
	Width:             800,
	Height:            1200,
	DeviceScaleFactor: 2,
	Mobile:            true,
}

// SessionManager manages browser lifecycle with automatic recycling to prevent
// memory accumulation. Chrome accumulates memory over time, and the baseline
// never returns to initial levels even with proper page cleanup. After
// maxPages pages the running session is retired: it keeps serving its
// outstanding pages, closes itself when the last one is released, and the
// next Open launches a fresh browser.
//
// SessionManager is safe for concurrent use.
type SessionManager struct {
	current   *Session
	draining  map[*Session]struct{}
	maxPages  int
	userAgent string
	viewport  proto.EmulationSetDeviceMetricsOverride
	bin       string
	mu        sync.Mutex
	closed    atomic.Bool
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified. Zero disables recycling.
func WithMaxPages(n int) ManagerOption {
	return func(m *SessionManager) {
		m.maxPages = n
	}
}

// WithUserAgent overrides the user agent of every page.
func WithUserAgent(ua string) ManagerOption {
	return func(m *SessionManager) {
		m.userAgent = ua
	}
}

// WithViewport overrides the emulated device metrics of every page.
func WithViewport(v proto.EmulationSetDeviceMetricsOverride) ManagerOption {
	return func(m *SessionManager) {
		m.viewport = v
	}
}

// WithBrowserBin sets the path of the Chrome binary. By default the launcher
// finds an installed browser or downloads one.
func WithBrowserBin(path string) ManagerOption {
	return func(m *SessionManager) {
		m.bin = path
	}
}

// NewSessionManager creates a SessionManager. No browser is launched until
// the first call to Open. Close must be called when the SessionManager is no
// longer needed.
func NewSessionManager(opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		maxPages:  DefaultMaxPages,
		userAgent: DefaultUserAgent,
		viewport:  DefaultViewport,
		draining:  make(map[*Session]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open returns the running session, launching a browser if none is running
// or the running one has been retired.
func (m *SessionManager) Open(ctx context.Context) (postpdf.Session, error) {
	return m.open(ctx)
}

func (m *SessionManager) open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.closed.Load() {
		return nil, postpdf.Errorf(postpdf.EINTERNAL, "session manager is closed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.usable() {
		return m.current, nil
	}

	// A retired session keeps serving its outstanding pages until it
	// drains; Close must still reach it.
	if m.current != nil && !m.current.isClosed() {
		m.draining[m.current] = struct{}{}
	}

	s, err := m.launch()
	if err != nil {
		return nil, err
	}
	s.onDrain = m.forget
	m.current = s
	return s, nil
}

// forget drops a retired session that shut down after draining.
func (m *SessionManager) forget(s *Session) {
	m.mu.Lock()
	delete(m.draining, s)
	m.mu.Unlock()
}

// Close terminates the running session and every retired session still
// serving pages, closing their outstanding pages.
// Close is safe to call multiple times.
func (m *SessionManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.draining)+1)
	for s := range m.draining {
		sessions = append(sessions, s)
	}
	if m.current != nil {
		sessions = append(sessions, m.current)
	}
	m.current = nil
	clear(m.draining)
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Draining returns the number of retired sessions that still have
// outstanding pages.
func (m *SessionManager) Draining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.draining)
}

// launch starts a new browser with flags suited to a restricted container:
// no sandbox, no shared memory, no GPU.
// Must be called with mu held.
func (m *SessionManager) launch() (*Session, error) {
	lnchr := launcher.New().
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-accelerated-2d-canvas").
		Set("disable-gpu").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-hang-monitor").
		NoSandbox(true).
		Leakless(true).
		Headless(true)
	if m.bin != "" {
		lnchr = lnchr.Bin(m.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, postpdf.Errorf(postpdf.ELAUNCH, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, postpdf.Errorf(postpdf.ELAUNCH, "connecting to browser: %v", err)
	}

	return newSession(browser, lnchr, m.maxPages, m.userAgent, m.viewport), nil
}

// LauncherPID returns the process ID of the running browser launcher, or
// zero if no browser is running.
// This method exists for testing purposes to verify proper cleanup.
func (m *SessionManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0
	}
	return m.current.launcher.PID()
}
