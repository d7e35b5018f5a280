package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/convert"
	"github.com/fwojciec/postpdf/extract"
	"github.com/fwojciec/postpdf/gocache"
	"github.com/fwojciec/postpdf/goquery"
	"github.com/fwojciec/postpdf/htmltomarkdown"
	"github.com/fwojciec/postpdf/readability"
	"github.com/fwojciec/postpdf/rod"
	postpdfslog "github.com/fwojciec/postpdf/slog"
	"github.com/fwojciec/postpdf/template"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Browser sessions shared by extraction and PDF rendering.
	Sessions *rod.SessionManager

	// Services for end-to-end testing. When Converter is set, no browser
	// is started.
	Converter postpdf.Converter
	Renderers map[string]postpdf.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Sessions != nil {
		return m.Sessions.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postpdf"),
		kong.Description("Convert X articles, posts and threads into documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postpdf --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)

	// validate is pure URL inspection and needs no browser.
	if !strings.HasPrefix(kongCtx.Command(), "validate") {
		m.wire(deps, &cli.Browser)
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// wire builds the conversion and rendering services unless they were
// injected.
func (m *Main) wire(deps *Dependencies, flags *BrowserFlags) {
	logger := deps.Logger

	if m.Converter == nil {
		m.Sessions = rod.NewSessionManager(
			rod.WithMaxPages(flags.MaxPages),
			rod.WithBrowserBin(flags.BrowserBin),
		)
		sessions := postpdfslog.NewLoggingSessionManager(m.Sessions, logger)

		extractor := extract.NewExtractor(goquery.NewParser(),
			extract.WithNavigationTimeout(flags.NavTimeout),
			extract.WithContentTimeout(flags.ContentTimeout),
			extract.WithSettleDelay(flags.SettleDelay),
			extract.WithFallback(readability.NewExtractor()),
			extract.WithLogger(logger),
		)

		opts := []convert.Option{
			convert.WithLimiter(convert.NewDomainLimiter(flags.RateLimit, convert.WithBurst(flags.RateBurst))),
		}
		if flags.CacheTTL > 0 {
			opts = append(opts, convert.WithCache(gocache.NewContentCache(flags.CacheTTL, 2*flags.CacheTTL)))
		}

		m.Converter = postpdfslog.NewLoggingConverter(convert.NewService(sessions, extractor, opts...), logger)
	}

	if m.Renderers == nil {
		html := template.NewRenderer()
		m.Renderers = map[string]postpdf.Renderer{
			"html": postpdfslog.NewLoggingRenderer(html, logger),
			"md":   postpdfslog.NewLoggingRenderer(htmltomarkdown.NewRenderer(), logger),
			"json": NewJSONRenderer(),
		}
		if m.Sessions != nil {
			m.Renderers["pdf"] = postpdfslog.NewLoggingRenderer(rod.NewPDFRenderer(m.Sessions, html), logger)
		}
	}

	deps.Converter = m.Converter
	deps.Renderers = m.Renderers
	deps.Sessions = m.Sessions
}

// newLogger returns a text logger on w at the named level. Unknown levels
// fall back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
