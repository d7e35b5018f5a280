package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/postpdf"
)

// Selectors for the rendered markup of the service.
const (
	ArticleSelector = "article"
	PostSelector    = `[data-testid="tweet"]`

	articleContentSelector = `[data-testid="articleContent"]`
	headingRoleSelector    = `[role="heading"]`
	headingSelector        = "h1"
	articleChromeSelector  = `nav, [role="navigation"], [data-testid="advertisement"], aside, .login-prompt`

	authorNameSelector = `[data-testid="User-Name"]`
	postTextSelector   = `[data-testid="tweetText"]`
	timeSelector       = "time[datetime]"
)

// Defaults for articles without a heading or author link.
const (
	DefaultTitle  = "Untitled Article"
	DefaultAuthor = "Unknown Author"
)

// ReadySelector returns the marker whose presence means content of type t
// has rendered.
func ReadySelector(t postpdf.ContentType) string {
	if t == postpdf.ContentArticle {
		return ArticleSelector
	}
	return PostSelector
}

// ExtractContent dispatches on the provisional classification. Posts that
// need a thread check are refined to a Thread when the target user authored
// a consecutive run of at least two containers.
func ExtractContent(doc postpdf.Node, c *postpdf.Classification, now time.Time, meta *postpdf.Metadata) (postpdf.Content, error) {
	switch c.Type {
	case postpdf.ContentArticle:
		return ExtractArticle(doc, now, meta)
	case postpdf.ContentPost, postpdf.ContentThread:
		return extractPostOrThread(doc, c, now)
	default:
		return nil, postpdf.Errorf(postpdf.EINVALID, "cannot extract content of type %q", c.Type)
	}
}

// ExtractArticle extracts long-form content from the first article root.
// Title and author fall back to meta, then to fixed defaults.
func ExtractArticle(doc postpdf.Node, now time.Time, meta *postpdf.Metadata) (*postpdf.Article, error) {
	roots := doc.Find(ArticleSelector)
	if len(roots) == 0 {
		return nil, postpdf.Errorf(postpdf.ENOTFOUND, "article content not found")
	}
	root := roots[0]

	title := firstText(root, headingRoleSelector, headingSelector)
	if title == "" && meta != nil {
		title = strings.TrimSpace(meta.Title)
	}
	if title == "" {
		title = DefaultTitle
	}

	author := articleAuthor(root)
	if author == "" && meta != nil {
		author = strings.TrimSpace(meta.Byline)
	}
	if author == "" {
		author = DefaultAuthor
	}

	body := root
	if nodes := root.Find(articleContentSelector); len(nodes) > 0 {
		body = nodes[0]
	}
	body = body.Without(articleChromeSelector)

	html, err := body.InnerHTML()
	if err != nil {
		return nil, fmt.Errorf("reading article markup: %w", err)
	}

	return &postpdf.Article{
		Title:      title,
		Author:     author,
		BodyHTML:   strings.TrimSpace(html),
		Images:     collectImages(body, nil),
		CapturedAt: now,
	}, nil
}

// articleAuthor returns the text of the first profile link, skipping
// permalinks to posts and articles.
func articleAuthor(root postpdf.Node) string {
	for _, a := range root.Find("a[href]") {
		href, _ := a.Attr("href")
		if strings.Contains(href, "/status/") || strings.Contains(href, "/i/articles/") {
			continue
		}
		if text := firstLine(a.Text()); text != "" {
			return text
		}
	}
	return ""
}

// ExtractPost extracts a single post from its container. The author falls
// back to username and the timestamp falls back to now.
func ExtractPost(container postpdf.Node, username string, now time.Time) *postpdf.Post {
	author := firstLine(firstText(container, authorNameSelector))
	if author == "" {
		author = username
	}

	var text string
	if nodes := container.Find(postTextSelector); len(nodes) > 0 {
		text = nodes[0].Text()
	}

	return &postpdf.Post{
		Author:   author,
		Text:     text,
		Images:   collectImages(container, IsMediaURL),
		PostedAt: postedAt(container, now),
	}
}

func postedAt(container postpdf.Node, now time.Time) time.Time {
	for _, n := range container.Find(timeSelector) {
		v, _ := n.Attr("datetime")
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return t
		}
	}
	return now
}

func extractPostOrThread(doc postpdf.Node, c *postpdf.Classification, now time.Time) (postpdf.Content, error) {
	containers := doc.Find(PostSelector)
	if len(containers) == 0 {
		return nil, postpdf.Errorf(postpdf.ENOTFOUND, "post content not found")
	}

	if c.NeedsThreadCheck {
		if run := ThreadRun(containers, c.Username); run != nil {
			posts := make([]*postpdf.Post, 0, len(run))
			for _, n := range run {
				posts = append(posts, ExtractPost(n, c.Username, now))
			}
			return postpdf.NewThread(c.Username, posts)
		}
	}

	return ExtractPost(containers[0], c.Username, now), nil
}

// IsMediaURL reports whether an image URL points at uploaded media rather
// than UI chrome such as avatars and icons.
func IsMediaURL(src string) bool {
	return strings.Contains(src, "media")
}

// collectImages returns every image below n in document order. When keep is
// non-nil only images whose source it accepts are returned.
func collectImages(n postpdf.Node, keep func(src string) bool) []postpdf.Image {
	images := []postpdf.Image{}
	for _, img := range n.Find("img[src]") {
		src, _ := img.Attr("src")
		if src == "" {
			continue
		}
		if keep != nil && !keep(src) {
			continue
		}
		alt, _ := img.Attr("alt")
		images = append(images, postpdf.Image{Src: src, Alt: alt})
	}
	return images
}

// firstText returns the trimmed text of the first element with non-empty
// text, trying selectors in order.
func firstText(n postpdf.Node, selectors ...string) string {
	for _, sel := range selectors {
		for _, m := range n.Find(sel) {
			if text := strings.TrimSpace(m.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
