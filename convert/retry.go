package convert

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
)

// DefaultRetryDelays returns the backoff delays for conversion retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return RetryDelays(3)
}

// RetryDelays returns n backoff delays doubling from 1s.
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// ConvertWithRetry converts rawURL, retrying transient failures (timeouts
// and browser launch failures) after each of delays. Input errors and
// content that cannot be converted fail on the first attempt.
// The logger, if non-nil, records each retry.
func ConvertWithRetry(ctx context.Context, conv postpdf.Converter, rawURL string, logger *slog.Logger, delays []time.Duration) (*postpdf.Conversion, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := conv.Convert(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !postpdf.Retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Warn("retrying conversion",
				"url", rawURL,
				"attempt", attempt+2,
				"delay", delays[attempt],
				"err", err,
			)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}
