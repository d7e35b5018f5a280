package extract

import (
	"net/url"
	"strings"

	"github.com/fwojciec/postpdf"
)

// MinThreadLength is the shortest consecutive run of same-author posts
// treated as a thread.
const MinThreadLength = 2

// IsAuthoredBy reports whether a post container links to the profile of
// username. Matching is a case-insensitive substring test on the path of
// link targets, so a reply that quotes the author also matches. The host is
// ignored: "/x" must not match every resolved "https://x.com/..." link.
func IsAuthoredBy(container postpdf.Node, username string) bool {
	if username == "" {
		return false
	}
	needle := "/" + strings.ToLower(username)
	for _, a := range container.Find("a[href]") {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(u.Path), needle) {
			return true
		}
	}
	return false
}

// ThreadRun returns the first run of consecutive containers authored by
// username that is at least MinThreadLength long, or nil if there is none.
// Matches separated by another author do not add up.
func ThreadRun(containers []postpdf.Node, username string) []postpdf.Node {
	start, n := 0, 0
	for i, c := range containers {
		if IsAuthoredBy(c, username) {
			if n == 0 {
				start = i
			}
			n++
			continue
		}
		if n >= MinThreadLength {
			break
		}
		n = 0
	}
	if n < MinThreadLength {
		return nil
	}
	return containers[start : start+n]
}

// DetectThread reports whether containers hold a thread by username.
func DetectThread(containers []postpdf.Node, username string) bool {
	return ThreadRun(containers, username) != nil
}
