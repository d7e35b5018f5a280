// Package convert implements the conversion boundary: a raw URL in,
// extracted content or a coded error out.
package convert

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure Service implements postpdf.Converter at compile time.
var _ postpdf.Converter = (*Service)(nil)

// Service normalizes and classifies a URL, then extracts its content in a
// fresh page of the shared browser session. Invalid input is rejected
// before the browser is touched.
//
// Service is safe for concurrent use.
type Service struct {
	sessions  postpdf.SessionManager
	extractor postpdf.ContentExtractor
	cache     postpdf.ContentCache
	limiter   postpdf.DomainLimiter
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache serves repeated conversions of the same normalized URL from c.
func WithCache(c postpdf.ContentCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLimiter throttles navigation to each source host.
func WithLimiter(l postpdf.DomainLimiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

// WithClock sets the time source for conversion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service.
func NewService(sessions postpdf.SessionManager, extractor postpdf.ContentExtractor, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		extractor: extractor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert extracts the content rawURL points to.
func (s *Service) Convert(ctx context.Context, rawURL string) (*postpdf.Conversion, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, postpdf.Errorf(postpdf.EINVALID, "URL is required")
	}

	normalized := postpdf.Normalize(rawURL)
	c := postpdf.Classify(normalized)
	if err := c.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if content, ok := s.cache.Get(normalized); ok {
			return s.conversion(normalized, c, content), nil
		}
	}

	if s.limiter != nil {
		if err := s.wait(ctx, normalized); err != nil {
			return nil, err
		}
	}

	session, err := s.sessions.Open(ctx)
	if err != nil {
		return nil, err
	}

	page, err := session.NewPage(ctx)
	if err != nil {
		return nil, err
	}

	// The extractor owns the page from here and closes it on every path.
	content, err := s.extractor.Extract(ctx, page, &c)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(normalized, content)
	}
	return s.conversion(normalized, c, content), nil
}

func (s *Service) conversion(normalized string, c postpdf.Classification, content postpdf.Content) *postpdf.Conversion {
	c.Type = content.Kind()
	return &postpdf.Conversion{
		SourceURL:      normalized,
		Classification: c,
		Content:        content,
		ExtractedAt:    s.now(),
	}
}

func (s *Service) wait(ctx context.Context, normalized string) error {
	u, err := url.Parse(normalized)
	if err != nil {
		return postpdf.Errorf(postpdf.EINVALIDURL, "invalid URL format")
	}

	err = s.limiter.Wait(ctx, u.Hostname())
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return postpdf.Errorf(postpdf.ETIMEOUT, "waiting for rate limit: %v", err)
}
