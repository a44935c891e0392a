package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonicalize normalizes a URL into the form used as page identity.
//
// Design decision: We normalize URLs because:
//  1. The same page can have different URL representations
//  2. Fragments (#anchor) don't change the document
//  3. Trailing slashes rarely distinguish real pages
//
// The result is idempotent: canonicalizing a canonical URL returns it
// unchanged.
func Canonicalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("canonicalize %q: not an absolute URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("canonicalize %q: unsupported scheme %q", raw, u.Scheme)
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	switch {
	case u.Path == "":
		u.Path = "/"
	case u.Path != "/":
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// Resolve resolves an href against a base page URL and canonicalizes the
// result. Non-http(s) targets (mailto, javascript, tel) return an error.
func Resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("resolve: bad base %q: %w", base, err)
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("resolve: bad href %q: %w", href, err)
	}
	return Canonicalize(b.ResolveReference(h).String())
}

// SameOrigin reports whether two URLs share scheme and host.
//
// Design decision: We only crawl the same origin by default because:
//  1. Crawling third-party sites could be seen as unauthorized
//  2. Keeps the crawl focused on the target
//  3. Cross-origin links are still recorded as graph edges
func SameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) && strings.EqualFold(ua.Host, ub.Host)
}
