package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/rod"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Converter postpdf.Converter
	Renderers map[string]postpdf.Renderer
	Sessions  *rod.SessionManager
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel string       `name:"log-level" env:"POSTPDF_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	Browser  BrowserFlags `embed:""`

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP conversion server"`
	Convert  ConvertCmd  `cmd:"" help:"Convert URLs to documents"`
	Validate ValidateCmd `cmd:"" help:"Classify a URL without fetching it"`
}

// BrowserFlags configure extraction and the browser.
type BrowserFlags struct {
	NavTimeout     time.Duration `name:"nav-timeout" env:"POSTPDF_NAV_TIMEOUT" default:"30s" help:"Page navigation timeout"`
	ContentTimeout time.Duration `name:"content-timeout" env:"POSTPDF_CONTENT_TIMEOUT" default:"15s" help:"Wait for the content marker"`
	SettleDelay    time.Duration `name:"settle-delay" env:"POSTPDF_SETTLE_DELAY" default:"2s" help:"Pause for client-side rendering after the marker appears"`
	MaxPages       int           `name:"max-pages" env:"POSTPDF_MAX_PAGES" default:"75" help:"Pages per browser before it is recycled (0 disables)"`
	CacheTTL       time.Duration `name:"cache-ttl" env:"POSTPDF_CACHE_TTL" default:"0s" help:"Cache extracted content for this long (0 disables)"`
	RateLimit      float64       `name:"rate-limit" env:"POSTPDF_RATE_LIMIT" default:"1" help:"Navigations per second per source site (0 disables)"`
	RateBurst      int           `name:"rate-burst" env:"POSTPDF_RATE_BURST" default:"1" help:"Navigations a site may receive back to back"`
	BrowserBin     string        `name:"browser-bin" env:"POSTPDF_BROWSER_BIN" help:"Path to a Chrome or Chromium binary"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Port        int     `env:"PORT" default:"3000" help:"Listen port"`
	TempDir     string  `name:"temp-dir" env:"TEMP_DIR" default:"./temp" help:"Directory for transient output files"`
	RequestRate float64 `name:"request-rate" env:"POSTPDF_REQUEST_RATE" default:"10" help:"HTTP requests per second (0 disables)"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	URLs        []string `arg:"" name:"url" help:"URLs to convert"`
	Output      string   `short:"o" default:"." help:"Output directory"`
	Format      string   `short:"f" default:"pdf" enum:"pdf,html,md,json" help:"Output format (pdf, html, md, json)"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent conversion limit"`
	Retries     int      `default:"3" help:"Retries for transient failures"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	URL  string `arg:"" help:"URL to classify"`
	JSON bool   `help:"Print the classification as JSON"`
}
