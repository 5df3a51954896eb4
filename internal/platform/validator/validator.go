// internal/platform/validator/validator.go
package validator

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// URL validators

// IsCheckableURL reports whether a string is an absolute http or https URL
// with a non-empty host. This is the syntactic gate applied before any
// network check: empty strings, scheme-relative references and values with
// malformed percent-encoding are all rejected.
func IsCheckableURL(urlStr string) bool {
	if len(urlStr) == 0 {
		return false
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	switch parsed.Scheme {
	case "http", "https":
	default:
		return false
	}

	return parsed.Host != ""
}

// Host extracts the hostname of a URL, without port. Returns "" when the
// value does not parse.
func Host(urlStr string) string {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// RegistrableDomain reduces a URL host to its registrable domain (eTLD+1),
// so per-domain statistics group subdomains of the same site together.
// Falls back to the raw host when the public suffix list cannot resolve it
// (IPs, localhost, single-label hosts).
func RegistrableDomain(urlStr string) string {
	host := Host(urlStr)
	if host == "" {
		return ""
	}

	eTLDPlusOne, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return eTLDPlusOne
}

// ResolveReference resolves a possibly relative redirect target against the
// URL that issued it. Returns "" when either side does not parse or the
// result is not itself checkable.
func ResolveReference(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	resolved := baseURL.ResolveReference(refURL).String()
	if !IsCheckableURL(resolved) {
		return ""
	}
	return resolved
}
