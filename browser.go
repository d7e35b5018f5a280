package postpdf

import "context"

// SessionManager owns the lifecycle of a headless browser process.
type SessionManager interface {
	// Open returns the running session, launching a browser process if none
	// is running. Launch failures are returned with code ELAUNCH.
	Open(ctx context.Context) (Session, error)

	// Close terminates the running session, if any.
	// Close is idempotent.
	Close() error
}

// Session is one browser process shared by concurrent requests.
// Each request gets its own Page; pages never share DOM or cookie state.
type Session interface {
	// NewPage opens an isolated page configured for mobile rendering.
	NewPage(ctx context.Context) (Page, error)

	// Close closes every outstanding page and terminates the browser process.
	// Close is idempotent.
	Close() error
}

// Page is a single browser tab owned by one request.
type Page interface {
	// Navigate loads url and waits for the load event.
	// The context bounds the navigation.
	Navigate(ctx context.Context, url string) error

	// WaitElement blocks until an element matching selector exists.
	// The context bounds the wait.
	WaitElement(ctx context.Context, selector string) error

	// Snapshot serializes the rendered DOM.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Close releases the page. Close is idempotent.
	Close() error
}

// Snapshot is the serialized DOM of a rendered page.
type Snapshot struct {
	// URL is the page URL after redirects. Relative references resolve against it.
	URL  string
	HTML string
}

// Node is a read-only view of a rendered DOM element.
// Extraction logic depends only on this interface so it can be tested
// against synthetic documents.
type Node interface {
	// Find returns descendants matching a CSS selector in document order.
	Find(selector string) []Node

	// Attr returns an attribute value. The src and href attributes are
	// resolved to absolute URLs, as the browser reports them.
	Attr(name string) (string, bool)

	// Text returns the rendered text of the node, with line breaks where
	// the browser would render them.
	Text() string

	// InnerHTML returns the markup of the node's children.
	InnerHTML() (string, error)

	// Without returns a copy of the node with every descendant matching
	// selector removed. The receiver is not modified.
	Without(selector string) Node
}

// DocumentParser turns a page snapshot into a traversable document.
type DocumentParser interface {
	Parse(s *Snapshot) (Node, error)
}
