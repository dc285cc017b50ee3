// Package urlutil provides URL helpers for building Bitbucket API addresses.
//
// It handles the two base-address rules of the server:
//   - Cloud detection: a configured base URL pointing at bitbucket.org (any
//     subdomain) means the Cloud platform.
//   - Path joining: REST paths are assembled from a base address plus escaped
//     path segments, never by raw string concatenation.
package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

const cloudHost = "bitbucket.org"

var errInvalidBaseURL = errors.New("base URL must be an absolute http(s) URL")

// ErrInvalidBaseURL is returned when a base URL cannot be parsed or lacks a scheme.
var ErrInvalidBaseURL = errInvalidBaseURL

// NormalizeBase parses a raw base URL, requires an http or https scheme,
// and returns it without any trailing slash.
func NormalizeBase(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errInvalidBaseURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errInvalidBaseURL
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// IsCloudHost reports whether the URL points at the hosted Bitbucket Cloud
// service. Both bitbucket.org itself and subdomains such as api.bitbucket.org
// count.
func IsCloudHost(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == cloudHost || strings.HasSuffix(host, "."+cloudHost)
}

// Join appends escaped path segments to a base address. The base is assumed
// to be normalized (no trailing slash). Empty segments are skipped.
func Join(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		if s == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
