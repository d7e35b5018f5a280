package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
)

// Ensure LoggingSessionManager implements postpdf.SessionManager.
var _ postpdf.SessionManager = (*LoggingSessionManager)(nil)

// LoggingSessionManager wraps a SessionManager with debug logging of
// session opens and shutdown.
type LoggingSessionManager struct {
	next   postpdf.SessionManager
	logger *slog.Logger
}

// NewLoggingSessionManager creates a new LoggingSessionManager.
func NewLoggingSessionManager(next postpdf.SessionManager, logger *slog.Logger) *LoggingSessionManager {
	return &LoggingSessionManager{next: next, logger: logger}
}

// Open delegates to the wrapped manager. Launch failures are logged at
// error level.
func (m *LoggingSessionManager) Open(ctx context.Context) (s postpdf.Session, err error) {
	defer func(begin time.Time) {
		if err != nil {
			m.logger.Error("open browser session", "duration", time.Since(begin), "code", postpdf.ErrorCode(err), "err", err)
			return
		}
		m.logger.Debug("open browser session", "duration", time.Since(begin))
	}(time.Now())
	return m.next.Open(ctx)
}

// Close delegates to the wrapped manager.
func (m *LoggingSessionManager) Close() error {
	err := m.next.Close()
	m.logger.Info("close browser session", "err", err)
	return err
}
