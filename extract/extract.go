// Package extract turns a rendered page into normalized content.
//
// Extraction runs as a small per-request state machine:
// Idle → Navigating → WaitingForContent → Extracting → Done | Failed.
// The DOM-reading logic is a set of pure functions over postpdf.Node so it
// can be exercised against synthetic documents.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure Extractor implements postpdf.ContentExtractor at compile time.
var _ postpdf.ContentExtractor = (*Extractor)(nil)

// Default bounds for the extraction steps.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultContentTimeout    = 15 * time.Second
	DefaultSettleDelay       = 2 * time.Second
)

// State is a step of a single extraction.
type State int

// Extraction states.
const (
	StateIdle State = iota
	StateNavigating
	StateWaitingForContent
	StateExtracting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigating:
		return "navigating"
	case StateWaitingForContent:
		return "waiting_for_content"
	case StateExtracting:
		return "extracting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Extractor drives a page through navigation, readiness wait and DOM
// extraction. Extractor is safe for concurrent use; each call owns its page.
type Extractor struct {
	parser         postpdf.DocumentParser
	navTimeout     time.Duration
	contentTimeout time.Duration
	settleDelay    time.Duration
	now            func() time.Time
	fallback       postpdf.MetadataExtractor
	logger         *slog.Logger
	onState        func(url string, s State)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNavigationTimeout bounds page navigation. Defaults to 30s.
func WithNavigationTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.navTimeout = d
	}
}

// WithContentTimeout bounds the wait for the content marker. Defaults to 15s.
func WithContentTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.contentTimeout = d
	}
}

// WithSettleDelay sets the pause between the content wait and extraction
// that lets lazy-loaded images and text populate. Defaults to 2s.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Extractor) {
		e.settleDelay = d
	}
}

// WithClock sets the time source used for capture timestamps and missing
// post timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// WithFallback sets the metadata extractor consulted when an article has no
// heading or author link.
func WithFallback(m postpdf.MetadataExtractor) Option {
	return func(e *Extractor) {
		e.fallback = m
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithStateFunc registers a callback invoked on every state transition.
func WithStateFunc(fn func(url string, s State)) Option {
	return func(e *Extractor) {
		e.onState = fn
	}
}

// NewExtractor creates an Extractor that parses snapshots with parser.
func NewExtractor(parser postpdf.DocumentParser, opts ...Option) *Extractor {
	e := &Extractor{
		parser:         parser,
		navTimeout:     DefaultNavigationTimeout,
		contentTimeout: DefaultContentTimeout,
		settleDelay:    DefaultSettleDelay,
		now:            time.Now,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract navigates page to the classified URL and extracts its content.
// The page is closed exactly once on every path.
//
// A navigation that exceeds its bound fails with ETIMEOUT. A content marker
// that never appears is tolerated and extraction proceeds best-effort;
// a page with no recoverable content fails with ENOTFOUND.
func (e *Extractor) Extract(ctx context.Context, page postpdf.Page, c *postpdf.Classification) (content postpdf.Content, err error) {
	url := ""
	if c != nil {
		url = c.URL
	}

	defer func() {
		if cerr := page.Close(); cerr != nil {
			e.logger.Warn("closing page", "url", url, "err", cerr)
		}
		if err != nil {
			e.transition(url, StateFailed)
			return
		}
		e.transition(url, StateDone)
	}()

	e.transition(url, StateIdle)
	if c == nil || !c.Valid {
		return nil, postpdf.Errorf(postpdf.EINVALID, "extraction requires a valid classification")
	}

	e.transition(url, StateNavigating)
	if err := e.navigate(ctx, page, url); err != nil {
		return nil, err
	}

	e.transition(url, StateWaitingForContent)
	if err := e.waitForContent(ctx, page, c); err != nil {
		return nil, err
	}

	e.transition(url, StateExtracting)
	snap, err := page.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx)
		}
		return nil, fmt.Errorf("capturing page: %w", err)
	}

	doc, err := e.parser.Parse(snap)
	if err != nil {
		return nil, err
	}

	var meta *postpdf.Metadata
	if c.Type == postpdf.ContentArticle && e.fallback != nil {
		meta, err = e.fallback.ExtractMetadata(snap.HTML, snap.URL)
		if err != nil {
			e.logger.Debug("metadata fallback unavailable", "url", url, "err", err)
			meta = nil
		}
	}

	return ExtractContent(doc, c, e.now(), meta)
}

func (e *Extractor) navigate(ctx context.Context, page postpdf.Page, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, e.navTimeout)
	defer cancel()

	err := page.Navigate(navCtx, url)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return contextError(ctx)
	}
	if errors.Is(err, context.DeadlineExceeded) || navCtx.Err() != nil {
		return postpdf.Errorf(postpdf.ETIMEOUT, "navigation timed out after %s", e.navTimeout)
	}
	if postpdf.ErrorCode(err) != postpdf.EINTERNAL {
		return err
	}
	return fmt.Errorf("navigating to %s: %w", url, err)
}

// waitForContent waits for the type-specific content marker. A marker that
// does not appear is not an error: some valid pages render without it.
// Only cancellation of the request itself aborts the wait.
func (e *Extractor) waitForContent(ctx context.Context, page postpdf.Page, c *postpdf.Classification) error {
	selector := ReadySelector(c.Type)

	waitCtx, cancel := context.WithTimeout(ctx, e.contentTimeout)
	err := page.WaitElement(waitCtx, selector)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return contextError(ctx)
		}
		e.logger.Info("content marker not found, extracting best-effort",
			"url", c.URL,
			"selector", selector,
			"err", err,
		)
	}

	if e.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(e.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return contextError(ctx)
	case <-timer.C:
		return nil
	}
}

func (e *Extractor) transition(url string, s State) {
	e.logger.Debug("extract", "url", url, "state", s.String())
	if e.onState != nil {
		e.onState(url, s)
	}
}

// contextError maps a finished request context to an application error.
// A request deadline is a timeout; cancellation is passed through.
func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return postpdf.Errorf(postpdf.ETIMEOUT, "request deadline exceeded")
	}
	return ctx.Err()
}
