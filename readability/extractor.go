// Package readability reads page-level article metadata with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/postpdf"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements postpdf.MetadataExtractor at compile time.
var _ postpdf.MetadataExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to read the title and byline of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractMetadata processes raw HTML and returns its title and byline.
// pageURL may be empty.
func (e *Extractor) ExtractMetadata(rawHTML, pageURL string) (*postpdf.Metadata, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postpdf.Errorf(postpdf.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, postpdf.Errorf(postpdf.EINVALID, "invalid page URL: %v", err)
		}
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	return &postpdf.Metadata{
		Title:  strings.TrimSpace(article.Title),
		Byline: strings.TrimSpace(article.Byline),
	}, nil
}
