// Package template renders extracted content as standalone HTML documents.
package template

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure Renderer implements postpdf.Renderer at compile time.
var _ postpdf.Renderer = (*Renderer)(nil)

//go:embed templates/*.html
var files embed.FS

// Renderer renders content to HTML. Text is escaped; article bodies are
// inserted as extracted markup.
type Renderer struct {
	tmpl *template.Template
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
		loc: time.UTC,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.tmpl = template.Must(template.New("").Funcs(template.FuncMap{
		"formatDate": r.formatDate,
		"trusted":    func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(files, "templates/*.html"))

	return r
}

// page is the data passed to every document template.
type page struct {
	Content   postpdf.Content
	SourceURL string
}

// Render renders conv as an HTML document.
func (r *Renderer) Render(_ context.Context, conv *postpdf.Conversion) (*postpdf.Output, error) {
	if conv == nil || conv.Content == nil {
		return nil, postpdf.Errorf(postpdf.ERENDER, "no content to render")
	}

	var name string
	switch conv.Content.(type) {
	case *postpdf.Article:
		name = "article.html"
	case *postpdf.Thread:
		name = "thread.html"
	case *postpdf.Post:
		name = "post.html"
	default:
		return nil, postpdf.Errorf(postpdf.ERENDER, "unsupported content %T", conv.Content)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, page{Content: conv.Content, SourceURL: conv.SourceURL}); err != nil {
		return nil, postpdf.Errorf(postpdf.ERENDER, "executing %s: %v", name, err)
	}

	return &postpdf.Output{
		Filename: postpdf.Filename(conv.Content, "html", r.now()),
		MIMEType: "text/html; charset=utf-8",
		Data:     buf.Bytes(),
	}, nil
}

func (r *Renderer) formatDate(t time.Time) string {
	return t.In(r.loc).Format(postpdf.DateLayout)
}
