package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	// Token regex patterns compiled once using sync.Once for performance.
	cloudAccessTokenRegex *regexp.Regexp
	appPasswordRegex      *regexp.Regexp
	dcTokenRegex          *regexp.Regexp
	bearerTokenRegex      *regexp.Regexp
	authHeaderRegex       *regexp.Regexp
	regexOnce             sync.Once

	// errSanitized is the error type for sanitized errors.
	errSanitized = errors.New("sanitized error")
)

// compileRegexPatterns initializes all regex patterns once.
func compileRegexPatterns() {
	regexOnce.Do(func() {
		// Bitbucket Cloud repository/project/workspace access tokens: ATCTT + base64-ish tail.
		cloudAccessTokenRegex = regexp.MustCompile(`ATCTT[a-zA-Z0-9+/=_-]{20,}`)

		// Bitbucket Cloud app passwords: ATBB + 20+ chars.
		appPasswordRegex = regexp.MustCompile(`ATBB[a-zA-Z0-9]{16,}`)

		// Bitbucket Data Center HTTP access tokens: BBDC- + 20+ chars.
		dcTokenRegex = regexp.MustCompile(`BBDC-[a-zA-Z0-9]{16,}`)

		// Generic bearer tokens: long base64-like strings (40-200 chars).
		bearerTokenRegex = regexp.MustCompile(`\b[A-Za-z0-9+/=]{40,200}\b`)

		// Authorization headers: "Authorization: Bearer <token>" or "Authorization: Basic <blob>".
		authHeaderRegex = regexp.MustCompile(`(?i)authorization:\s*(?:bearer|basic)\s+[a-zA-Z0-9+/=_-]{10,}`)
	})
}

// SanitizeString removes sensitive tokens from a string using compiled regex patterns.
// It detects and redacts Bitbucket Cloud access tokens (ATCTT*), app passwords
// (ATBB*), Data Center HTTP access tokens (BBDC-*), authorization headers, and
// generic bearer tokens. Classified API errors run their remediation and raw
// detail text through this before it reaches the caller.
//
// Thread Safety: Safe for concurrent use after first call (regex patterns compiled via sync.Once).
func SanitizeString(s string) string {
	compileRegexPatterns()

	s = cloudAccessTokenRegex.ReplaceAllString(s, "[access-token-redacted]")
	s = appPasswordRegex.ReplaceAllString(s, "[app-password-redacted]")
	s = dcTokenRegex.ReplaceAllString(s, "[token-redacted]")
	s = authHeaderRegex.ReplaceAllString(s, "Authorization: [redacted]")

	// Replace generic bearer tokens last to avoid over-redaction of strings
	// already handled by a platform-specific pattern.
	if strings.Contains(s, "ATCTT") || strings.Contains(s, "ATBB") ||
		strings.Contains(s, "BBDC-") {
		return s
	}
	s = bearerTokenRegex.ReplaceAllString(s, "[token-redacted]")

	return s
}

// SanitizeError wraps an error with [SanitizeString] applied to its message.
// Returns nil if err is nil. The original error chain is not preserved;
// the returned error wraps an internal errSanitized sentinel.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	sanitized := SanitizeString(err.Error())
	return fmt.Errorf("%w: %s", errSanitized, sanitized)
}

// SanitizeMap redacts values whose keys match common sensitive names
// (token, password, secret, api_key, auth, credential, authorization).
// Non-sensitive string values are also passed through [SanitizeString].
// Returns nil if m is nil.
func SanitizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	sensitiveKeys := []string{
		"token", "password", "secret", "api_key", "apikey",
		"auth", "credential", "authorization",
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		lowerKey := strings.ToLower(k)
		isSensitive := false
		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(lowerKey, sensitiveKey) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			result[k] = maskRedacted
		} else {
			if str, ok := v.(string); ok {
				result[k] = SanitizeString(str)
			} else {
				result[k] = v
			}
		}
	}

	return result
}
