package template_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 17, 14, 3, 0, 0, time.UTC)

func render(t *testing.T, content postpdf.Content) string {
	t.Helper()

	r := template.NewRenderer(template.WithClock(func() time.Time { return now }))
	out, err := r.Render(context.Background(), &postpdf.Conversion{
		SourceURL: "https://x.com/alice/status/1",
		Content:   content,
	})
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", out.MIMEType)
	return string(out.Data)
}

func TestRenderer_Render_Post(t *testing.T) {
	t.Parallel()

	t.Run("escapes text and formats date", func(t *testing.T) {
		t.Parallel()

		html := render(t, &postpdf.Post{
			Author:   "Alice <admin>",
			Text:     "<script>alert(1)</script>\nsecond line",
			PostedAt: now,
			Images:   []postpdf.Image{{Src: "https://pbs.twimg.com/media/a.jpg", Alt: `a "photo"`}},
		})

		assert.Contains(t, html, "<title>Post by Alice &lt;admin&gt;</title>")
		assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;\nsecond line")
		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, "May 17, 2024 at 02:03 PM")
		assert.Contains(t, html, `<img src="https://pbs.twimg.com/media/a.jpg" alt="a &#34;photo&#34;">`)
		assert.Contains(t, html, `Original source: <a href="https://x.com/alice/status/1">https://x.com/alice/status/1</a>`)
	})

	t.Run("neutralizes unsafe image URLs", func(t *testing.T) {
		t.Parallel()

		html := render(t, &postpdf.Post{
			Author: "alice",
			Images: []postpdf.Image{{Src: "javascript:alert(1)"}},
		})

		assert.NotContains(t, html, "javascript:")
	})

	t.Run("omits image block without images", func(t *testing.T) {
		t.Parallel()

		html := render(t, &postpdf.Post{Author: "alice", Text: "hi"})

		assert.NotContains(t, html, `<div class="images">`)
	})
}

func TestRenderer_Render_Thread(t *testing.T) {
	t.Parallel()

	thread, err := postpdf.NewThread("alice", []*postpdf.Post{
		{Author: "Alice", Text: "one", PostedAt: now},
		{Author: "Alice", Text: "two", PostedAt: now.Add(time.Minute)},
	})
	require.NoError(t, err)

	html := render(t, thread)

	assert.Contains(t, html, "<title>Thread by alice</title>")
	assert.Contains(t, html, "2 posts · May 17, 2024 at 02:03 PM")
	assert.Equal(t, 1, strings.Count(html, `class="post first-post"`))
	assert.Equal(t, 1, strings.Count(html, `class="post"`))
	assert.Less(t, strings.Index(html, ">one<"), strings.Index(html, ">two<"))
	assert.Contains(t, html, "May 17, 2024 at 02:04 PM")
}

func TestRenderer_Render_Article(t *testing.T) {
	t.Parallel()

	html := render(t, &postpdf.Article{
		Title:      "Tom & Jerry",
		Author:     "The Writer",
		BodyHTML:   "<p>First <strong>bold</strong> paragraph.</p>",
		CapturedAt: now,
	})

	assert.Contains(t, html, "<h1>Tom &amp; Jerry</h1>")
	assert.Contains(t, html, "By The Writer")
	assert.Contains(t, html, "<p>First <strong>bold</strong> paragraph.</p>")
}

func TestRenderer_Render_Location(t *testing.T) {
	t.Parallel()

	r := template.NewRenderer(template.WithLocation(time.FixedZone("UTC+2", 2*60*60)))

	out, err := r.Render(context.Background(), &postpdf.Conversion{
		Content: &postpdf.Post{Author: "alice", PostedAt: now},
	})

	require.NoError(t, err)
	assert.Contains(t, string(out.Data), "May 17, 2024 at 04:03 PM")
}

func TestRenderer_Render_Filename(t *testing.T) {
	t.Parallel()

	r := template.NewRenderer(template.WithClock(func() time.Time { return now }))

	out, err := r.Render(context.Background(), &postpdf.Conversion{
		Content: &postpdf.Post{Author: "alice"},
	})

	require.NoError(t, err)
	assert.Equal(t, "post_alice_2024-05-17.html", out.Filename)
}

func TestRenderer_Render_NoContent(t *testing.T) {
	t.Parallel()

	r := template.NewRenderer()

	_, err := r.Render(context.Background(), &postpdf.Conversion{})

	assert.Equal(t, postpdf.ERENDER, postpdf.ErrorCode(err))
}
