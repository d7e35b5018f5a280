package mock

import (
	"context"

	"github.com/fwojciec/postpdf"
)

// Compile-time interface verification.
var (
	_ postpdf.SessionManager = (*SessionManager)(nil)
	_ postpdf.Session        = (*Session)(nil)
	_ postpdf.Page           = (*Page)(nil)
	_ postpdf.DocumentParser = (*DocumentParser)(nil)
)

// SessionManager is a mock implementation of postpdf.SessionManager.
type SessionManager struct {
	OpenFn  func(ctx context.Context) (postpdf.Session, error)
	CloseFn func() error
}

func (m *SessionManager) Open(ctx context.Context) (postpdf.Session, error) {
	return m.OpenFn(ctx)
}

func (m *SessionManager) Close() error {
	return m.CloseFn()
}

// Session is a mock implementation of postpdf.Session.
type Session struct {
	NewPageFn func(ctx context.Context) (postpdf.Page, error)
	CloseFn   func() error
}

func (s *Session) NewPage(ctx context.Context) (postpdf.Page, error) {
	return s.NewPageFn(ctx)
}

func (s *Session) Close() error {
	return s.CloseFn()
}

// Page is a mock implementation of postpdf.Page.
type Page struct {
	NavigateFn    func(ctx context.Context, url string) error
	WaitElementFn func(ctx context.Context, selector string) error
	SnapshotFn    func(ctx context.Context) (*postpdf.Snapshot, error)
	CloseFn       func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) WaitElement(ctx context.Context, selector string) error {
	return p.WaitElementFn(ctx, selector)
}

func (p *Page) Snapshot(ctx context.Context) (*postpdf.Snapshot, error) {
	return p.SnapshotFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// DocumentParser is a mock implementation of postpdf.DocumentParser.
type DocumentParser struct {
	ParseFn func(s *postpdf.Snapshot) (postpdf.Node, error)
}

func (p *DocumentParser) Parse(s *postpdf.Snapshot) (postpdf.Node, error) {
	return p.ParseFn(s)
}
