package postpdf

import (
	"strconv"
	"strings"
	"time"
)

// maxTitleRunes bounds the title portion of article filenames.
const maxTitleRunes = 50

// Filename returns the download filename for content rendered with the
// given extension (without the dot), stamped with the date of now.
func Filename(c Content, ext string, now time.Time) string {
	date := now.UTC().Format("2006-01-02")

	var base string
	switch v := c.(type) {
	case *Article:
		title := []rune(v.Title)
		if len(title) > maxTitleRunes {
			title = title[:maxTitleRunes]
		}
		base = "article_" + sanitize(string(title)) + "_" + date
	case *Thread:
		base = "thread_" + sanitize(v.Author) + "_" + strconv.Itoa(v.PostCount) + "_" + date
	case *Post:
		base = "post_" + sanitize(v.Author) + "_" + date
	default:
		base = "content_" + date
	}
	return base + "." + ext
}

// sanitize lowercases s and replaces every rune outside [a-z0-9] with '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, s)
}
