package pdpmcp

import (
	"net/url"
	"strings"
)

// Guard validates and normalizes candidate URLs against the documentation
// portal's host allow-list. It performs no I/O; a URL that passes Validate is
// safe to use as a fetch target and deterministic as a log key.
type Guard struct {
	hosts map[string]bool
}

// NewGuard creates a Guard allowing the hosts of the given base URLs.
// Invalid base URLs are ignored; an empty allow-list rejects everything.
func NewGuard(baseURLs ...string) *Guard {
	hosts := make(map[string]bool, len(baseURLs))
	for _, raw := range baseURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		hosts[strings.ToLower(u.Host)] = true
	}
	return &Guard{hosts: hosts}
}

// trackingParams are query parameters stripped during normalization so that
// two references to the same page compare equal downstream.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"ref":    true,
}

// Validate checks that raw is an absolute HTTPS URL on an allowed portal host
// and returns its normalized form. Returns EINVALID otherwise.
func (g *Guard) Validate(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", Errorf(EINVALID, "URL required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if !u.IsAbs() {
		return "", Errorf(EINVALID, "URL %q must be absolute", raw)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return "", Errorf(EINVALID, "URL %q must use the https scheme", raw)
	}

	host := strings.ToLower(u.Host)
	if !g.hosts[host] {
		return "", Errorf(EINVALID, "URL %q is not on the documentation portal domain", raw)
	}

	u.Scheme = "https"
	u.Host = host
	u.Fragment = ""

	// Strip tracking parameters, preserving everything else.
	if u.RawQuery != "" {
		q := u.Query()
		for param := range q {
			if trackingParams[param] || strings.HasPrefix(strings.ToLower(param), "utm_") {
				q.Del(param)
			}
		}
		u.RawQuery = q.Encode()
	}

	// Collapse the trailing slash on non-root paths.
	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	return u.String(), nil
}

// Allows reports whether raw would pass validation. Used when filtering
// upstream results where individual failures are dropped rather than fatal.
func (g *Guard) Allows(raw string) bool {
	_, err := g.Validate(raw)
	return err == nil
}
