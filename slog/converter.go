// Package slog provides logging decorators for postpdf services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure LoggingConverter implements postpdf.Converter.
var _ postpdf.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with logging.
type LoggingConverter struct {
	next   postpdf.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next postpdf.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs the outcome.
func (c *LoggingConverter) Convert(ctx context.Context, rawURL string) (conv *postpdf.Conversion, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", rawURL,
			"duration", time.Since(begin),
		}
		if conv != nil {
			attrs = append(attrs, "type", string(conv.Type()))
		}
		if err != nil {
			attrs = append(attrs, "code", postpdf.ErrorCode(err), "err", err)
		}
		c.logger.Info("convert", attrs...)
	}(time.Now())
	return c.next.Convert(ctx, rawURL)
}
