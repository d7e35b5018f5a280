package extract_test

import (
	"testing"

	"github.com/fwojciec/postpdf"
	"github.com/fwojciec/postpdf/extract"
	"github.com/fwojciec/postpdf/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		authors  []string
		want     []string
	}{
		{
			name:    "leading run is collected without the trailing isolated match",
			authors: []string{"alice", "alice", "bob", "alice"},
			want:    []string{"post 0", "post 1"},
		},
		{
			name:    "matches separated by another author are not a thread",
			authors: []string{"alice", "bob", "alice"},
		},
		{
			name:    "single match is not a thread",
			authors: []string{"alice"},
		},
		{
			name:    "run may start after replies",
			authors: []string{"bob", "alice", "alice", "alice"},
			want:    []string{"post 1", "post 2", "post 3"},
		},
		{
			name: "no containers",
		},
		{
			name:     "username matching the host name is matched on path only",
			username: "x",
			authors:  []string{"x", "bob", "carol"},
		},
		{
			name:     "username matching the host name still forms a thread",
			username: "x",
			authors:  []string{"x", "x", "bob"},
			want:     []string{"post 0", "post 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			username := tt.username
			if username == "" {
				username = "alice"
			}
			containers := parsePosts(t, tt.authors...)

			run := extract.ThreadRun(containers, username)

			assert.Equal(t, tt.want != nil, extract.DetectThread(containers, username))
			var got []string
			for _, n := range run {
				got = append(got, n.Find(`[data-testid="tweetText"]`)[0].Text())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAuthoredBy(t *testing.T) {
	t.Parallel()

	t.Run("matches profile link case-insensitively", func(t *testing.T) {
		t.Parallel()

		containers := parsePosts(t, "Alice")

		assert.True(t, extract.IsAuthoredBy(containers[0], "alice"))
	})

	t.Run("other author does not match", func(t *testing.T) {
		t.Parallel()

		containers := parsePosts(t, "bob")

		assert.False(t, extract.IsAuthoredBy(containers[0], "alice"))
	})

	t.Run("host of resolved links is not matched", func(t *testing.T) {
		t.Parallel()

		containers := parsePosts(t, "bob")

		assert.False(t, extract.IsAuthoredBy(containers[0], "x"))
	})

	t.Run("empty username never matches", func(t *testing.T) {
		t.Parallel()

		containers := parsePosts(t, "alice")

		assert.False(t, extract.IsAuthoredBy(containers[0], ""))
	})
}

func TestIsMediaURL(t *testing.T) {
	t.Parallel()

	assert.True(t, extract.IsMediaURL("https://pbs.twimg.com/media/GabcXYZ.jpg?format=jpg&name=small"))
	assert.False(t, extract.IsMediaURL("https://pbs.twimg.com/profile_images/123/avatar_normal.jpg"))
	assert.False(t, extract.IsMediaURL("https://abs.twimg.com/emoji/v2/svg/1f600.svg"))
}

// parsePosts builds a page with one post container per author and returns
// the containers in document order.
func parsePosts(t *testing.T, authors ...string) []postpdf.Node {
	t.Helper()

	doc, err := goquery.ParseHTML(postsPage(authors...), "https://x.com/alice/status/1")
	require.NoError(t, err)
	return doc.Find(extract.PostSelector)
}
