package mock

import (
	"context"

	"github.com/fwojciec/postpdf"
)

// Compile-time interface verification.
var (
	_ postpdf.Converter         = (*Converter)(nil)
	_ postpdf.ContentExtractor  = (*ContentExtractor)(nil)
	_ postpdf.Renderer          = (*Renderer)(nil)
	_ postpdf.MetadataExtractor = (*MetadataExtractor)(nil)
	_ postpdf.ContentCache      = (*ContentCache)(nil)
	_ postpdf.DomainLimiter     = (*DomainLimiter)(nil)
	_ postpdf.Spool             = (*Spool)(nil)
)

// Converter is a mock implementation of postpdf.Converter.
type Converter struct {
	ConvertFn func(ctx context.Context, rawURL string) (*postpdf.Conversion, error)
}

func (c *Converter) Convert(ctx context.Context, rawURL string) (*postpdf.Conversion, error) {
	return c.ConvertFn(ctx, rawURL)
}

// ContentExtractor is a mock implementation of postpdf.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, page postpdf.Page, c *postpdf.Classification) (postpdf.Content, error)
}

func (e *ContentExtractor) Extract(ctx context.Context, page postpdf.Page, c *postpdf.Classification) (postpdf.Content, error) {
	return e.ExtractFn(ctx, page, c)
}

// Renderer is a mock implementation of postpdf.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, conv *postpdf.Conversion) (*postpdf.Output, error)
}

func (r *Renderer) Render(ctx context.Context, conv *postpdf.Conversion) (*postpdf.Output, error) {
	return r.RenderFn(ctx, conv)
}

// MetadataExtractor is a mock implementation of postpdf.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(html, pageURL string) (*postpdf.Metadata, error)
}

func (e *MetadataExtractor) ExtractMetadata(html, pageURL string) (*postpdf.Metadata, error) {
	return e.ExtractMetadataFn(html, pageURL)
}

// ContentCache is a mock implementation of postpdf.ContentCache.
type ContentCache struct {
	GetFn func(key string) (postpdf.Content, bool)
	SetFn func(key string, c postpdf.Content)
}

func (c *ContentCache) Get(key string) (postpdf.Content, bool) {
	return c.GetFn(key)
}

func (c *ContentCache) Set(key string, content postpdf.Content) {
	c.SetFn(key, content)
}

// DomainLimiter is a mock implementation of postpdf.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// Spool is a mock implementation of postpdf.Spool.
type Spool struct {
	WriteFn  func(data []byte, ext string) (string, error)
	RemoveFn func(path string) error
}

func (s *Spool) Write(data []byte, ext string) (string, error) {
	return s.WriteFn(data, ext)
}

func (s *Spool) Remove(path string) error {
	return s.RemoveFn(path)
}

var _ postpdf.OutputWriter = (*OutputWriter)(nil)

// OutputWriter is a mock implementation of postpdf.OutputWriter.
type OutputWriter struct {
	WriteOutputFn func(ctx context.Context, out *postpdf.Output) (string, error)
}

func (w *OutputWriter) WriteOutput(ctx context.Context, out *postpdf.Output) (string, error) {
	return w.WriteOutputFn(ctx, out)
}
