package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/askdoc"
)

// NormalizeURL canonicalizes a URL for deduplication: lowercases the
// scheme and host, drops default ports, strips the fragment, sorts
// query parameters, and removes a trailing slash from non-root paths.
// URLs differing only in these respects normalize to the same string.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", askdoc.Errorf(askdoc.EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", askdoc.Errorf(askdoc.EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", askdoc.Errorf(askdoc.EINVALID, "URL %q has no host", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// Drop default ports.
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}

	// url.Values.Encode sorts by key, which canonicalizes query order.
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	// Strip trailing slash from non-root paths.
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	if u.Path == "/" {
		u.Path = ""
	}

	return u.String(), nil
}

// hostOf returns the lowercased host of an already-parsed URL string,
// or "" if it does not parse.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// hostAllowed reports whether host matches one of the allowed domains,
// either exactly or as a subdomain.
func hostAllowed(host string, allowed []string) bool {
	for _, d := range allowed {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
