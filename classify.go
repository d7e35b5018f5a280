package postpdf

import (
	"net/url"
	"regexp"
	"strings"
)

// ContentType identifies the kind of content a URL points to.
type ContentType string

// ContentType constants. ContentUnknown is the zero value.
const (
	ContentUnknown ContentType = ""
	ContentArticle ContentType = "article"
	ContentPost    ContentType = "post"
	ContentThread  ContentType = "thread"
)

// CanonicalHost is the preferred apex domain that legacy hosts are rewritten to.
const CanonicalHost = "x.com"

// allowedHosts lists every hostname accepted by Classify, across both
// brand names of the service.
var allowedHosts = map[string]bool{
	"x.com":              true,
	"www.x.com":          true,
	"mobile.x.com":       true,
	"twitter.com":        true,
	"www.twitter.com":    true,
	"mobile.twitter.com": true,
}

// mirrorHosts maps legacy hostnames to their canonical equivalents.
var mirrorHosts = map[string]string{
	"twitter.com":        "x.com",
	"www.twitter.com":    "www.x.com",
	"mobile.twitter.com": "mobile.x.com",
}

// keptQueryParams are the only query parameters that survive Normalize.
var keptQueryParams = []string{"s"}

// articlePathPrefix is the namespace under which long-form articles live.
const articlePathPrefix = "/i/articles/"

var statusPathRE = regexp.MustCompile(`^/([^/]+)/status/(\d+)(?:/|$)`)

// Classification is the provisional classification of a URL derived from
// its shape alone. A Post may later be refined to a Thread by extraction.
type Classification struct {
	URL              string      `json:"url"`
	Valid            bool        `json:"valid"`
	Type             ContentType `json:"type,omitempty"`
	Username         string      `json:"username,omitempty"`
	PostID           string      `json:"postId,omitempty"`
	NeedsThreadCheck bool        `json:"needsThreadCheck,omitempty"`
	ErrorReason      string      `json:"error,omitempty"`

	code string
}

// Err returns the coded error for an invalid classification, or nil when
// the classification is valid.
func (c *Classification) Err() error {
	if c.Valid {
		return nil
	}
	code := c.code
	if code == "" {
		code = EINVALIDURL
	}
	return Errorf(code, "%s", c.ErrorReason)
}

// IsAllowedHost reports whether hostname is one of the known hosts of the
// service. Matching is exact and case-insensitive.
func IsAllowedHost(hostname string) bool {
	return allowedHosts[strings.ToLower(hostname)]
}

// Normalize canonicalizes a URL so that otherwise-identical URLs compare
// equal. Legacy hosts are rewritten to their canonical form and every query
// parameter except the share-tracking one is dropped. Normalize is
// best-effort: input that does not parse as an absolute URL is returned
// unchanged.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return rawURL
	}

	host := strings.ToLower(u.Hostname())
	if canonical, ok := mirrorHosts[host]; ok {
		host = canonical
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host

	query := u.Query()
	kept := url.Values{}
	for _, name := range keptQueryParams {
		if query.Has(name) {
			kept.Set(name, query.Get(name))
		}
	}
	u.RawQuery = kept.Encode()
	u.ForceQuery = false

	return u.String()
}

// Classify determines the provisional content type of a URL from its shape.
// It fails closed: parse errors and unknown hosts yield an invalid result
// with a human-readable reason. No network access occurs.
func Classify(rawURL string) Classification {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return invalid(rawURL, EINVALIDURL, "invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid(rawURL, EINVALIDURL, "invalid URL format")
	}
	if !IsAllowedHost(u.Hostname()) {
		return invalid(rawURL, EINVALIDURL, "invalid X domain")
	}

	if strings.Contains(u.Path, articlePathPrefix) {
		return Classification{
			URL:   rawURL,
			Valid: true,
			Type:  ContentArticle,
		}
	}

	if m := statusPathRE.FindStringSubmatch(u.Path); m != nil {
		return Classification{
			URL:              rawURL,
			Valid:            true,
			Type:             ContentPost,
			Username:         m[1],
			PostID:           m[2],
			NeedsThreadCheck: true,
		}
	}

	return invalid(rawURL, ESHAPE, "unrecognized URL shape")
}

func invalid(rawURL, code, reason string) Classification {
	return Classification{
		URL:         rawURL,
		Valid:       false,
		Type:        ContentUnknown,
		ErrorReason: reason,
		code:        code,
	}
}
