package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure LoggingRenderer implements postpdf.Renderer.
var _ postpdf.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   postpdf.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next postpdf.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the output size.
func (r *LoggingRenderer) Render(ctx context.Context, conv *postpdf.Conversion) (out *postpdf.Output, err error) {
	defer func(begin time.Time) {
		var filename string
		var size int
		if out != nil {
			filename, size = out.Filename, len(out.Data)
		}
		r.logger.Info("render",
			"url", conv.SourceURL,
			"file", filename,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, conv)
}
