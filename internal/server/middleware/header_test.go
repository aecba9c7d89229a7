package middleware

import (
	"net/http"
	"testing"
)

func TestExtractTokenFromRequest(t *testing.T) {
	tests := []struct {
		name          string
		headers       map[string]string
		expectedToken string
		expectedErr   string
		noToken       bool
	}{
		{
			name:          "valid bearer token",
			headers:       map[string]string{"Authorization": "Bearer tok-123"},
			expectedToken: "tok-123",
		},
		{
			name:    "no headers at all",
			noToken: true,
		},
		{
			name:        "missing Bearer prefix",
			headers:     map[string]string{"Authorization": "tok-123"},
			expectedErr: "Authorization header must start with 'Bearer '",
		},
		{
			name:        "empty bearer token",
			headers:     map[string]string{"Authorization": "Bearer "},
			expectedErr: "token is required",
		},
		{
			name:          "api key header",
			headers:       map[string]string{"X-API-Key": "key-456"},
			expectedToken: "key-456",
		},
		{
			name:          "api key header with prefix",
			headers:       map[string]string{"X-API-Key": "Token key-456"},
			expectedToken: "key-456",
		},
		{
			name: "authorization takes priority over api key",
			headers: map[string]string{
				"Authorization": "Bearer tok-123",
				"X-API-Key":     "key-456",
			},
			expectedToken: "tok-123",
		},
		{
			name: "falls through to api key on malformed authorization",
			headers: map[string]string{
				"Authorization": "tok-123",
				"X-API-Key":     "key-456",
			},
			expectedToken: "key-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			for name, value := range tt.headers {
				req.Header.Set(name, value)
			}

			token, err := ExtractTokenFromRequest(req, DefaultTokenConfig)

			if tt.noToken {
				if !IsNoToken(err) {
					t.Fatalf("expected no-token error, got %v", err)
				}

				return
			}

			if tt.expectedErr != "" {
				if err == nil || err.Error() != tt.expectedErr {
					t.Fatalf("expected error %q, got %v", tt.expectedErr, err)
				}

				if IsNoToken(err) {
					t.Fatal("malformed credentials must not classify as no-token")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if token != tt.expectedToken {
				t.Fatalf("expected token %q, got %q", tt.expectedToken, token)
			}
		})
	}
}
