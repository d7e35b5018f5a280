package htmltomarkdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure Renderer implements postpdf.Renderer at compile time.
var _ postpdf.Renderer = (*Renderer)(nil)

// Renderer renders content to Markdown. Post text is escaped so that it
// reads literally; article bodies are converted from their markup.
type Renderer struct {
	conv *Converter
	loc  *time.Location
	now  func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocation sets the time zone dates are displayed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		r.loc = loc
	}
}

// WithClock sets the time source used for output filenames.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		conv: NewConverter(),
		loc:  time.UTC,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders conv as a Markdown document.
func (r *Renderer) Render(_ context.Context, conv *postpdf.Conversion) (*postpdf.Output, error) {
	if conv == nil || conv.Content == nil {
		return nil, postpdf.Errorf(postpdf.ERENDER, "no content to render")
	}

	var b strings.Builder
	var err error
	switch c := conv.Content.(type) {
	case *postpdf.Article:
		err = r.writeArticle(&b, c)
	case *postpdf.Thread:
		err = r.writeThread(&b, c)
	case *postpdf.Post:
		fmt.Fprintf(&b, "# Post by %s\n\n", r.conv.Inline(c.Author))
		err = r.writePost(&b, c)
	default:
		return nil, postpdf.Errorf(postpdf.ERENDER, "unsupported content %T", conv.Content)
	}
	if err != nil {
		return nil, postpdf.Errorf(postpdf.ERENDER, "converting to markdown: %v", err)
	}

	if conv.SourceURL != "" {
		fmt.Fprintf(&b, "---\n\nOriginal source: <%s>\n", conv.SourceURL)
	}

	return &postpdf.Output{
		Filename: postpdf.Filename(conv.Content, "md", r.now()),
		MIMEType: "text/markdown; charset=utf-8",
		Data:     []byte(b.String()),
	}, nil
}

func (r *Renderer) writeArticle(b *strings.Builder, a *postpdf.Article) error {
	fmt.Fprintf(b, "# %s\n\n", r.conv.Inline(a.Title))
	fmt.Fprintf(b, "By %s · %s\n\n", r.conv.Inline(a.Author), r.formatDate(a.CapturedAt))

	body, err := r.conv.Body(a.BodyHTML)
	if err != nil || body == "" {
		return err
	}
	b.WriteString(body)
	b.WriteString("\n\n")
	return nil
}

func (r *Renderer) writeThread(b *strings.Builder, t *postpdf.Thread) error {
	fmt.Fprintf(b, "# Thread by %s\n\n", r.conv.Inline(t.Author))
	fmt.Fprintf(b, "%d posts · %s\n\n", t.PostCount, r.formatDate(t.CapturedAt))

	for i, p := range t.Posts {
		fmt.Fprintf(b, "## %d. %s\n\n", i+1, r.conv.Inline(p.Author))
		if err := r.writePost(b, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writePost(b *strings.Builder, p *postpdf.Post) error {
	fmt.Fprintf(b, "*%s*\n\n", r.formatDate(p.PostedAt))

	text, err := r.conv.Text(p.Text)
	if err != nil {
		return err
	}
	if text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	for _, img := range p.Images {
		fmt.Fprintf(b, "![%s](%s)\n\n", r.conv.Inline(img.Alt), img.Src)
	}
	return nil
}

func (r *Renderer) formatDate(t time.Time) string {
	return t.In(r.loc).Format(postpdf.DateLayout)
}
