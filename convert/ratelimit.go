package convert

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/postpdf"
	"golang.org/x/time/rate"
)

var _ postpdf.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces browser navigations with one token bucket per site.
// Hosts that reach the same site share a bucket: subdomain prefixes such
// as "www." and "mobile." are dropped and legacy brand hosts are mapped to
// the canonical one, so twitter.com, mobile.x.com and x.com draw from a
// single budget.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst sets how many navigations a site may receive back to back.
// Values below 1 are ignored.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n >= 1 {
			d.burst = n
		}
	}
}

// NewDomainLimiter creates a DomainLimiter allowing rps navigations per
// second per site with a burst of 1. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a navigation to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.limiter(SiteKey(host)).Wait(ctx)
}

// Sites returns the number of sites that have a bucket.
func (d *DomainLimiter) Sites() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.limiters)
}

func (d *DomainLimiter) limiter(key string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[key] = l
	}
	return l
}

// sitePrefixes are subdomains served by the same site as their apex.
var sitePrefixes = []string{"www.", "mobile.", "m."}

// SiteKey returns the bucket key for host: lowercased, without port or
// trailing dot, with serving subdomains stripped and legacy hosts mapped
// to their canonical apex.
func SiteKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	for _, p := range sitePrefixes {
		if rest, ok := strings.CutPrefix(host, p); ok && strings.Contains(rest, ".") {
			host = rest
			break
		}
	}
	if host == "twitter.com" {
		return postpdf.CanonicalHost
	}
	return host
}
