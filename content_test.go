package postpdf_test

import (
	"testing"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_Kind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, postpdf.ContentArticle, (&postpdf.Article{}).Kind())
	assert.Equal(t, postpdf.ContentPost, (&postpdf.Post{}).Kind())
	assert.Equal(t, postpdf.ContentThread, (&postpdf.Thread{}).Kind())
}

func TestNewThread(t *testing.T) {
	t.Parallel()

	t.Run("sets post count and captured time from first post", func(t *testing.T) {
		t.Parallel()

		first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		posts := []*postpdf.Post{
			{Author: "A", Text: "1/", PostedAt: first},
			{Author: "A", Text: "2/", PostedAt: first.Add(time.Minute)},
		}

		thread, err := postpdf.NewThread("alice", posts)

		require.NoError(t, err)
		assert.Equal(t, "alice", thread.Author)
		assert.Equal(t, 2, thread.PostCount)
		assert.Equal(t, first, thread.CapturedAt)
		assert.NoError(t, thread.Validate())
	})

	t.Run("rejects empty posts", func(t *testing.T) {
		t.Parallel()

		_, err := postpdf.NewThread("alice", nil)

		assert.Equal(t, postpdf.EINVALID, postpdf.ErrorCode(err))
	})
}

func TestThread_Validate(t *testing.T) {
	t.Parallel()

	thread := &postpdf.Thread{Posts: []*postpdf.Post{{}}, PostCount: 3}

	err := thread.Validate()

	assert.Equal(t, postpdf.EINVALID, postpdf.ErrorCode(err))
}

func TestFilename(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 17, 23, 0, 0, 0, time.UTC)

	t.Run("article uses sanitized truncated title", func(t *testing.T) {
		t.Parallel()

		a := &postpdf.Article{Title: "Hello, World! A Very Long Title That Keeps Going And Going Forever"}

		got := postpdf.Filename(a, "pdf", now)

		assert.Equal(t, "article_hello__world__a_very_long_title_that_keeps_going_a_2024-05-17.pdf", got)
	})

	t.Run("thread uses author and post count", func(t *testing.T) {
		t.Parallel()

		th := &postpdf.Thread{Author: "Jack.Dorsey", PostCount: 4}

		assert.Equal(t, "thread_jack_dorsey_4_2024-05-17.md", postpdf.Filename(th, "md", now))
	})

	t.Run("post uses author", func(t *testing.T) {
		t.Parallel()

		p := &postpdf.Post{Author: "Jack @jack"}

		assert.Equal(t, "post_jack__jack_2024-05-17.pdf", postpdf.Filename(p, "pdf", now))
	})
}
