package convert

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postpdf"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one conversion in a batch.
type Result struct {
	URL        string
	Conversion *postpdf.Conversion
	Err        error
}

// ConvertAll converts urls with at most concurrency conversions in flight,
// retrying transient failures after each of delays. Results are returned in
// the order of urls. A failed conversion does not stop the others; only
// cancellation of ctx does.
func ConvertAll(ctx context.Context, conv postpdf.Converter, urls []string, concurrency int, delays []time.Duration, logger *slog.Logger) ([]Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{URL: u, Err: err}
				return err
			}
			c, err := ConvertWithRetry(gctx, conv, u, logger, delays)
			results[i] = Result{URL: u, Conversion: c, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
