package postpdf

import "time"

// DateLayout is the display format of timestamps in rendered documents.
const DateLayout = "January 2, 2006 at 03:04 PM"

// Image is a content image in document order.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Content is the normalized content model handed to renderers.
// It is one of *Article, *Post or *Thread. Text fields hold raw extracted
// text; escaping is the renderer's responsibility.
type Content interface {
	// Kind returns the refined content type.
	Kind() ContentType

	content()
}

// Article is long-form content.
type Article struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	BodyHTML   string    `json:"bodyHtml"`
	Images     []Image   `json:"images"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Post is a single short-form post.
type Post struct {
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Images   []Image   `json:"images"`
	PostedAt time.Time `json:"postedAt"`
}

// Thread is a run of consecutive posts by the same author, in reading order.
type Thread struct {
	Author     string    `json:"author"`
	Posts      []*Post   `json:"posts"`
	PostCount  int       `json:"postCount"`
	CapturedAt time.Time `json:"capturedAt"`
}

func (*Article) Kind() ContentType { return ContentArticle }
func (*Post) Kind() ContentType    { return ContentPost }
func (*Thread) Kind() ContentType  { return ContentThread }

func (*Article) content() {}
func (*Post) content()    {}
func (*Thread) content()  {}

// NewThread assembles a thread from posts. CapturedAt is the first post's
// timestamp. Returns EINVALID if posts is empty.
func NewThread(author string, posts []*Post) (*Thread, error) {
	if len(posts) == 0 {
		return nil, Errorf(EINVALID, "thread requires at least one post")
	}
	return &Thread{
		Author:     author,
		Posts:      posts,
		PostCount:  len(posts),
		CapturedAt: posts[0].PostedAt,
	}, nil
}

// Validate returns an error if the thread violates its invariants.
func (t *Thread) Validate() error {
	if len(t.Posts) == 0 {
		return Errorf(EINVALID, "thread has no posts")
	}
	if t.PostCount != len(t.Posts) {
		return Errorf(EINVALID, "thread post count %d does not match %d posts", t.PostCount, len(t.Posts))
	}
	return nil
}
