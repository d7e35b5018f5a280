package convert_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/convert"
	"github.com/fwojciec/postpdf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAll(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(_ context.Context, rawURL string) (*postpdf.Conversion, error) {
				if rawURL == "https://x.com/bad" {
					return nil, postpdf.Errorf(postpdf.ESHAPE, "unrecognized URL shape")
				}
				// Later URLs finish first
				if rawURL == "https://x.com/a/status/1" {
					time.Sleep(20 * time.Millisecond)
				}
				return &postpdf.Conversion{SourceURL: rawURL}, nil
			},
		}
		urls := []string{"https://x.com/a/status/1", "https://x.com/bad", "https://x.com/b/status/2"}

		results, err := convert.ConvertAll(context.Background(), conv, urls, 3, shortDelays, nil)

		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, r := range results {
			assert.Equal(t, urls[i], r.URL)
		}
		assert.NoError(t, results[0].Err)
		assert.Equal(t, postpdf.ESHAPE, postpdf.ErrorCode(results[1].Err))
		assert.Nil(t, results[1].Conversion)
		assert.Equal(t, "https://x.com/b/status/2", results[2].Conversion.SourceURL)
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		conv := &mock.Converter{
			ConvertFn: func(_ context.Context, rawURL string) (*postpdf.Conversion, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				return &postpdf.Conversion{SourceURL: rawURL}, nil
			},
		}
		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "https://x.com/a/status/1"
		}

		_, err := convert.ConvertAll(context.Background(), conv, urls, 2, shortDelays, nil)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("canceled context stops the batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls atomic.Int32
		conv := &mock.Converter{
			ConvertFn: func(context.Context, string) (*postpdf.Conversion, error) {
				calls.Add(1)
				return &postpdf.Conversion{}, nil
			},
		}

		results, err := convert.ConvertAll(ctx, conv, []string{"https://x.com/a/status/1", "https://x.com/a/status/2"}, 1, shortDelays, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls.Load())
		for _, r := range results {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	})
}
