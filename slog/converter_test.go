package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/mock"
	postslog "github.com/fwojciec/postpdf/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("logs url type and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Converter{
			ConvertFn: func(_ context.Context, rawURL string) (*postpdf.Conversion, error) {
				return &postpdf.Conversion{SourceURL: rawURL, Content: &postpdf.Post{}}, nil
			},
		}

		conv := postslog.NewLoggingConverter(inner, logger)
		result, err := conv.Convert(context.Background(), "https://x.com/alice/status/1")

		require.NoError(t, err)
		assert.Equal(t, "https://x.com/alice/status/1", result.SourceURL)
		output := buf.String()
		assert.Contains(t, output, "msg=convert")
		assert.Contains(t, output, "url=https://x.com/alice/status/1")
		assert.Contains(t, output, "type=post")
		assert.Contains(t, output, "duration=")
		assert.NotContains(t, output, "err=")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Converter{
			ConvertFn: func(context.Context, string) (*postpdf.Conversion, error) {
				return nil, postpdf.Errorf(postpdf.ETIMEOUT, "navigation timed out after 30s")
			},
		}

		conv := postslog.NewLoggingConverter(inner, logger)
		_, err := conv.Convert(context.Background(), "https://x.com/alice/status/1")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "code=timeout")
		assert.Contains(t, output, "navigation timed out")
	})

	t.Run("logs uncoded errors as internal", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Converter{
			ConvertFn: func(context.Context, string) (*postpdf.Conversion, error) {
				return nil, errors.New("boom")
			},
		}

		_, err := postslog.NewLoggingConverter(inner, logger).Convert(context.Background(), "https://x.com/alice/status/1")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "code=internal")
		assert.Contains(t, buf.String(), "err=boom")
	})
}

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("logs file and size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(context.Context, *postpdf.Conversion) (*postpdf.Output, error) {
				return &postpdf.Output{Filename: "post_alice_2024-05-17.pdf", Data: []byte("%PDF-1.4")}, nil
			},
		}

		r := postslog.NewLoggingRenderer(inner, logger)
		out, err := r.Render(context.Background(), &postpdf.Conversion{SourceURL: "https://x.com/alice/status/1"})

		require.NoError(t, err)
		assert.Equal(t, "post_alice_2024-05-17.pdf", out.Filename)
		output := buf.String()
		assert.Contains(t, output, "msg=render")
		assert.Contains(t, output, "file=post_alice_2024-05-17.pdf")
		assert.Contains(t, output, "bytes=8")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(context.Context, *postpdf.Conversion) (*postpdf.Output, error) {
				return nil, errors.New("printing failed")
			},
		}

		_, err := postslog.NewLoggingRenderer(inner, logger).Render(context.Background(), &postpdf.Conversion{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="printing failed"`)
		assert.Contains(t, buf.String(), "bytes=0")
	})
}

func TestLoggingSessionManager(t *testing.T) {
	t.Parallel()

	t.Run("logs launch failure at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SessionManager{
			OpenFn: func(context.Context) (postpdf.Session, error) {
				return nil, postpdf.Errorf(postpdf.ELAUNCH, "launching browser: not found")
			},
		}

		_, err := postslog.NewLoggingSessionManager(inner, logger).Open(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "code=browser_launch")
	})

	t.Run("successful open is debug only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		session := &mock.Session{}
		inner := &mock.SessionManager{
			OpenFn: func(context.Context) (postpdf.Session, error) { return session, nil },
		}

		s, err := postslog.NewLoggingSessionManager(inner, logger).Open(context.Background())

		require.NoError(t, err)
		assert.Same(t, session, s)
		assert.Empty(t, buf.String())
	})

	t.Run("logs close", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SessionManager{CloseFn: func() error { return nil }}

		require.NoError(t, postslog.NewLoggingSessionManager(inner, logger).Close())
		assert.Contains(t, buf.String(), "close browser session")
	})
}
