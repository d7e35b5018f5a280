package postpdf

import (
	"context"
	"time"
)

// Conversion is the result of extracting content from a URL.
type Conversion struct {
	// SourceURL is the normalized URL the content was extracted from.
	SourceURL      string
	Classification Classification
	Content        Content
	ExtractedAt    time.Time
}

// Type returns the refined content type.
func (c *Conversion) Type() ContentType {
	if c.Content == nil {
		return c.Classification.Type
	}
	return c.Content.Kind()
}

// Converter is the boundary exposed to transports. It takes a raw URL and
// yields extracted content or a coded error: EINVALID, EINVALIDURL and
// ESHAPE for bad input; ETIMEOUT and ELAUNCH for transient failures;
// ENOTFOUND for content that cannot be converted.
type Converter interface {
	Convert(ctx context.Context, rawURL string) (*Conversion, error)
}

// ContentExtractor extracts normalized content from a page. The extractor
// owns the page for the duration of the call and closes it on every path.
type ContentExtractor interface {
	Extract(ctx context.Context, page Page, c *Classification) (Content, error)
}

// Output is a rendered document.
type Output struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Renderer turns extracted content into a document.
// Failures are returned with code ERENDER.
type Renderer interface {
	Render(ctx context.Context, conv *Conversion) (*Output, error)
}

// Metadata is page-level metadata used when the content DOM lacks it.
type Metadata struct {
	Title  string
	Byline string
}

// MetadataExtractor reads page-level metadata from raw HTML.
type MetadataExtractor interface {
	ExtractMetadata(html, pageURL string) (*Metadata, error)
}

// ContentCache stores extracted content keyed by normalized URL.
type ContentCache interface {
	Get(key string) (Content, bool)
	Set(key string, c Content)
}

// DomainLimiter throttles navigation per source domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	Wait(ctx context.Context, domain string) error
}

// Spool holds rendered documents in transient files while they are sent.
type Spool interface {
	// Write stores data in a new temp file and returns its path.
	Write(data []byte, ext string) (string, error)

	// Remove deletes a file previously returned by Write.
	Remove(path string) error
}

// OutputWriter persists rendered documents.
type OutputWriter interface {
	// WriteOutput stores out and returns where it was written.
	WriteOutput(ctx context.Context, out *Output) (string, error)
}
