package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/scm-tools/bitbucket-mcp/internal/security"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
)

// ErrorKind names the failure categories surfaced to callers.
type ErrorKind string

// Failure categories, in classification priority order.
const (
	KindAuth         ErrorKind = "authentication"
	KindBadRequest   ErrorKind = "bad_request"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConnectivity ErrorKind = "connectivity"
	KindUpstream     ErrorKind = "upstream"
)

// APIError is a classified upstream failure. It keeps the original status and
// raw body for forensic use; the remediation text is templated per platform
// so the message is actionable without consulting logs.
type APIError struct {
	Kind        ErrorKind
	StatusCode  int // 0 for network-level failures
	Platform    config.PlatformType
	Message     string
	Remediation string
	RawBody     string
	RequestURL  string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d, %s): %s %s", e.Kind, e.StatusCode, e.Platform, e.Message, e.Remediation)
	}
	return fmt.Sprintf("%s (%s): %s %s", e.Kind, e.Platform, e.Message, e.Remediation)
}

// classifyStatus maps an HTTP error status to an *APIError.
func classifyStatus(status int, body []byte, requestURL string, platform config.PlatformType) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Platform:   platform,
		RawBody:    security.SanitizeString(string(body)),
		RequestURL: requestURL,
	}

	switch status {
	case http.StatusUnauthorized:
		apiErr.Kind = KindAuth
		apiErr.Message = "authentication was rejected by the server."
		if platform.IsCloud() {
			apiErr.Remediation = "Check that the username matches the app password or token owner, " +
				"that the app password has the required scopes (repository, pullrequest), " +
				"and that the credential has not been revoked."
		} else {
			apiErr.Remediation = "Check that the personal access token is valid and has not expired, " +
				"that it grants at least repository read permission, " +
				"and that the instance at the configured base URL is the one that issued it."
		}
	case http.StatusBadRequest:
		apiErr.Kind = KindBadRequest
		apiErr.Message = "the server rejected the request."
		remediation := "Likely causes: the " + platform.ContextKey() + " identifier is unknown, " +
			"a referenced branch does not exist, or the source and target branches are identical."
		if !platform.IsCloud() {
			remediation += " On " + string(platform) + ", also check branch permission restrictions " +
				"and that the REST endpoint is reachable through any proxy in front of the instance."
		}
		apiErr.Remediation = remediation
	case http.StatusForbidden:
		apiErr.Kind = KindForbidden
		apiErr.Message = fmt.Sprintf("the %s credentials lack permission for this operation.", platform)
		if platform.IsCloud() {
			apiErr.Remediation = "Check the app password or token scopes and your role in the workspace."
		} else {
			apiErr.Remediation = "Check the token permissions and your project/repository role on the instance."
		}
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
		apiErr.Message = fmt.Sprintf("the requested resource was not found at %s.", requestURL)
		apiErr.Remediation = "Check the " + platform.ContextKey() + " identifier, the repository slug, " +
			"and any branch, pull request, or webhook identifier in the arguments."
	default:
		apiErr.Kind = KindUpstream
		apiErr.Message = fmt.Sprintf("the server returned an unexpected status %d.", status)
		apiErr.Remediation = "Inspect the raw response body for details."
	}

	return apiErr
}

// classifyTransport maps a network-level failure to an *APIError.
// Connection refusals, DNS failures, and timeouts all land here.
func classifyTransport(err error, requestURL string, platform config.PlatformType) *APIError {
	apiErr := &APIError{
		Kind:       KindConnectivity,
		Platform:   platform,
		Message:    fmt.Sprintf("could not reach %s: %s.", requestURL, security.SanitizeString(describeTransportError(err))),
		RequestURL: requestURL,
		RawBody:    security.SanitizeString(err.Error()),
	}

	if platform.IsCloud() {
		apiErr.Remediation = "Check general internet connectivity and that no proxy blocks api.bitbucket.org."
	} else {
		apiErr.Remediation = "Check VPN and firewall rules for the self-hosted instance, " +
			"and probe reachability directly, e.g. curl " + requestURL + "."
	}

	return apiErr
}

func describeTransportError(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "the request timed out"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS resolution failed for " + dnsErr.Name
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection failed (" + opErr.Op + ")"
	}

	return err.Error()
}
