package rod

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure PDFRenderer implements postpdf.Renderer at compile time.
var _ postpdf.Renderer = (*PDFRenderer)(nil)

// A4 paper size and margins, in inches.
const (
	paperWidth     = 8.27
	paperHeight    = 11.69
	marginVertical = 20 / 25.4
	marginSides    = 15 / 25.4
)

// PDFRenderer prints HTML documents to PDF in a headless page.
// The HTML comes from another Renderer, typically the template renderer.
type PDFRenderer struct {
	sessions *SessionManager
	html     postpdf.Renderer
	now      func() time.Time
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithPDFClock sets the time source used for output filenames.
func WithPDFClock(now func() time.Time) PDFOption {
	return func(r *PDFRenderer) {
		r.now = now
	}
}

// NewPDFRenderer creates a PDFRenderer that prints the output of html using
// pages from sessions.
func NewPDFRenderer(sessions *SessionManager, html postpdf.Renderer, opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{
		sessions: sessions,
		html:     html,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render prints conv to an A4 PDF with the source URL and page numbers in
// the footer.
func (r *PDFRenderer) Render(ctx context.Context, conv *postpdf.Conversion) (*postpdf.Output, error) {
	doc, err := r.html.Render(ctx, conv)
	if err != nil {
		return nil, err
	}

	data, err := r.print(ctx, string(doc.Data), conv.SourceURL)
	if err != nil {
		return nil, err
	}

	return &postpdf.Output{
		Filename: postpdf.Filename(conv.Content, "pdf", r.now()),
		MIMEType: "application/pdf",
		Data:     data,
	}, nil
}

func (r *PDFRenderer) print(ctx context.Context, document, sourceURL string) ([]byte, error) {
	s, err := r.sessions.open(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.newPage(ctx, false)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	page := p.page.Context(ctx)

	if err := page.SetDocumentContent(document); err != nil {
		return nil, renderError(ctx, "loading document", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, renderError(ctx, "waiting for images", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:          float(paperWidth),
		PaperHeight:         float(paperHeight),
		MarginTop:           float(marginVertical),
		MarginBottom:        float(marginVertical),
		MarginLeft:          float(marginSides),
		MarginRight:         float(marginSides),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<div></div>",
		FooterTemplate:      footerTemplate(sourceURL),
	})
	if err != nil {
		return nil, renderError(ctx, "printing PDF", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, renderError(ctx, "reading PDF stream", err)
	}
	return data, nil
}

// footerTemplate uses Chrome's pageNumber and totalPages placeholders.
func footerTemplate(sourceURL string) string {
	return fmt.Sprintf(`<div style="font-size:8px;width:100%%;text-align:center;color:#666;padding:0 15mm;">Source: %s | <span class="pageNumber"></span>/<span class="totalPages"></span></div>`,
		html.EscapeString(sourceURL))
}

func renderError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return postpdf.Errorf(postpdf.ERENDER, "%s: %v", op, err)
}

func float(v float64) *float64 {
	return &v
}
