package middleware

import (
	"errors"
	"net/http"
	"strings"
)

// TokenConfig configures bearer token extraction.
type TokenConfig struct {
	// Headers lists the header names to check, in priority order.
	Headers []string
	// RequireBearer requires the Bearer prefix on the Authorization header.
	RequireBearer bool
	// AllowedPrefixes are accepted value prefixes on non-Authorization headers.
	AllowedPrefixes []string
}

var DefaultTokenConfig = &TokenConfig{
	Headers:         []string{"Authorization", "X-API-Key"},
	RequireBearer:   true,
	AllowedPrefixes: []string{"Bearer ", "Token "},
}

var errNoToken = errors.New("no token found in any of the supported headers")

// ExtractTokenFromRequest pulls a bearer token from the request headers.
// Returns errNoToken when no candidate header is present at all, which
// callers treat as "unauthenticated" rather than "invalid".
func ExtractTokenFromRequest(r *http.Request, config *TokenConfig) (string, error) {
	if config == nil {
		config = DefaultTokenConfig
	}

	var lastError error

	for _, headerName := range config.Headers {
		headerValue := r.Header.Get(headerName)
		if headerValue == "" {
			continue
		}

		if strings.EqualFold(headerName, "authorization") && config.RequireBearer {
			if !strings.HasPrefix(headerValue, "Bearer ") {
				lastError = errors.New("Authorization header must start with 'Bearer '")
				continue
			}

			token := strings.TrimSpace(strings.TrimPrefix(headerValue, "Bearer "))
			if token == "" {
				lastError = errors.New("token is required")
				continue
			}

			return token, nil
		}

		token := headerValue

		for _, prefix := range config.AllowedPrefixes {
			if strings.HasPrefix(headerValue, prefix) {
				token = strings.TrimPrefix(headerValue, prefix)
				break
			}
		}

		token = strings.TrimSpace(token)
		if token == "" {
			lastError = errors.New("token is required")
			continue
		}

		return token, nil
	}

	if lastError != nil {
		return "", lastError
	}

	return "", errNoToken
}

// IsNoToken reports whether the extraction error means no credentials were
// presented at all.
func IsNoToken(err error) bool {
	return errors.Is(err, errNoToken)
}
