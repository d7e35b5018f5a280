package convert_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/convert"
	"github.com/fwojciec/postpdf/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

// failingConverter fails with errs in order, then succeeds.
func failingConverter(calls *atomic.Int32, errs ...error) *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(_ context.Context, rawURL string) (*postpdf.Conversion, error) {
			n := int(calls.Add(1))
			if n <= len(errs) {
				return nil, errs[n-1]
			}
			return &postpdf.Conversion{SourceURL: rawURL}, nil
		},
	}
}

func TestConvertWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds without retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		conv := failingConverter(&calls)

		result, err := convert.ConvertWithRetry(context.Background(), conv, "https://x.com/a/status/1", nil, shortDelays)

		require.NoError(t, err)
		assert.Equal(t, "https://x.com/a/status/1", result.SourceURL)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var buf bytes.Buffer
		conv := failingConverter(&calls,
			postpdf.Errorf(postpdf.ETIMEOUT, "navigation timed out"),
			postpdf.Errorf(postpdf.ELAUNCH, "launching browser"),
		)

		_, err := convert.ConvertWithRetry(context.Background(), conv, "https://x.com/a/status/1",
			slog.New(slog.NewTextHandler(&buf, nil)), shortDelays)

		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
		assert.Contains(t, buf.String(), "retrying conversion")
		assert.Contains(t, buf.String(), "attempt=3")
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		conv := failingConverter(&calls, postpdf.Errorf(postpdf.ENOTFOUND, "post content not found"))

		_, err := convert.ConvertWithRetry(context.Background(), conv, "https://x.com/a/status/1", nil, shortDelays)

		assert.Equal(t, postpdf.ENOTFOUND, postpdf.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("gives up after last delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		timeout := postpdf.Errorf(postpdf.ETIMEOUT, "navigation timed out")
		conv := failingConverter(&calls, timeout, timeout, timeout, timeout, timeout)

		_, err := convert.ConvertWithRetry(context.Background(), conv, "https://x.com/a/status/1", nil, shortDelays)

		assert.Equal(t, postpdf.ETIMEOUT, postpdf.ErrorCode(err))
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		conv := &mock.Converter{
			ConvertFn: func(context.Context, string) (*postpdf.Conversion, error) {
				calls.Add(1)
				cancel()
				return nil, postpdf.Errorf(postpdf.ETIMEOUT, "navigation timed out")
			},
		}

		_, err := convert.ConvertWithRetry(ctx, conv, "https://x.com/a/status/1", nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, convert.DefaultRetryDelays())
}

func TestRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Empty(t, convert.RetryDelays(0))
	assert.Empty(t, convert.RetryDelays(-1))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}, convert.RetryDelays(5))
}
