package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("writes file under its filename", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		w := fs.NewWriter(dir)

		path, err := w.WriteOutput(context.Background(), &postpdf.Output{
			Filename: "post_alice_2024-05-17.pdf",
			Data:     []byte("%PDF-1.4"),
		})

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "post_alice_2024-05-17.pdf"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(data))
	})

	t.Run("rejects filenames with directories", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())

		for _, name := range []string{"", "../escape.pdf", "sub/file.pdf", ".hidden"} {
			_, err := w.WriteOutput(context.Background(), &postpdf.Output{Filename: name})
			assert.Equal(t, postpdf.EINVALID, postpdf.ErrorCode(err), name)
		}
	})

	t.Run("respects canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fs.NewWriter(t.TempDir()).WriteOutput(ctx, &postpdf.Output{Filename: "a.pdf"})

		require.ErrorIs(t, err, context.Canceled)
	})
}
