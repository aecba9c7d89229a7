// Package sanitize neutralizes executable markup in untrusted request data
// before any downstream stage sees it. Strings pass through a strict HTML
// policy with an empty allow-list; container shape is preserved.
package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrInvalidInput marks request data this package could not traverse or parse.
var ErrInvalidInput = errors.New("sanitize: invalid input")

// protectedKeys are mapping keys whose values carry credential material and
// must pass through untouched. Matching is case-insensitive but exact: nested
// or prefixed variants (password_hash, user.token) are deliberately not
// covered, since broadening the match could corrupt legitimate data.
var protectedKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
}

// Sanitizer strips executable markup from string leaves. Safe for concurrent
// use: the underlying policy is read-only after construction.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer with the strict policy: no tags permitted, any
// disallowed tag is removed rather than escaped and kept.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Value recursively sanitizes v and returns the cleaned value. Maps are
// mutated in place and returned; slices and strings are replaced. Nil and
// non-string scalars come back unchanged. Value is idempotent.
func (s *Sanitizer) Value(v any) any {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		return s.policy.Sanitize(value)
	case []any:
		for i, item := range value {
			value[i] = s.Value(item)
		}

		return value
	case map[string]any:
		for key, item := range value {
			if _, protected := protectedKeys[strings.ToLower(key)]; protected {
				continue
			}

			value[key] = s.Value(item)
		}

		return value
	default:
		return value
	}
}

// Values sanitizes a string-keyed multi-value container (query or form
// parameters) in place.
func (s *Sanitizer) Values(values map[string][]string) map[string][]string {
	for key, items := range values {
		if _, protected := protectedKeys[strings.ToLower(key)]; protected {
			continue
		}

		for i, item := range items {
			items[i] = s.policy.Sanitize(item)
		}

		values[key] = items
	}

	return values
}

// Bytes sanitizes a JSON document. Empty input is returned unchanged; input
// that is not valid JSON fails with ErrInvalidInput.
func (s *Sanitizer) Bytes(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return raw, nil
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cleaned, err := json.Marshal(s.Value(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return cleaned, nil
}
