package security

import (
	"fmt"

	"github.com/sgaunet/bullets"
)

// DebugAuth logs authentication information safely.
// All details are sanitized before logging to prevent token leakage.
//
// Example:
//
//	DebugAuth(logger, "basic", map[string]string{
//	    "username": "alice",
//	    "url": "https://api.bitbucket.org/2.0",
//	})
func DebugAuth(logger *bullets.Logger, authType string, details map[string]string) {
	if logger == nil {
		return
	}

	detailsInterface := make(map[string]any, len(details))
	for k, v := range details {
		detailsInterface[k] = v
	}

	sanitized := SanitizeMap(detailsInterface)
	logger.Debug(fmt.Sprintf("Using %s authentication: %v", authType, sanitized))
}
