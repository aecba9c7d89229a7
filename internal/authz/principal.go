package authz

import (
	"context"
	"fmt"
)

// Principal represents the authenticated caller of a request. It is created
// by the authentication stage and read-only within this package.
// Each request can only have one Principal, guaranteed by WithPrincipal's set-once semantics.
type Principal struct {
	// ID is the unique identifier of the caller.
	ID string
	// TenantID is the tenant partition the caller belongs to, if any.
	TenantID string
	// Role is the caller's assigned role.
	Role Role
}

// String returns string representation of Principal (for audit logs).
func (p Principal) String() string {
	if p.ID == "" {
		return "unknown"
	}

	return fmt.Sprintf("user:%s", p.ID)
}

// principalKey is an unexported key type to prevent external forgery.
type principalKey struct{}

// WithPrincipal sets Principal, returns error if a different one already exists.
// Ensures each context can only set Principal once, preventing principal mixing.
func WithPrincipal(ctx context.Context, p Principal) (context.Context, error) {
	if existing, ok := GetPrincipal(ctx); ok {
		if existing != p {
			return ctx, fmt.Errorf("authz: principal conflict: existing=%s, new=%s", existing.String(), p.String())
		}

		return ctx, nil // Same principal, idempotent
	}

	return context.WithValue(ctx, principalKey{}, p), nil
}

// GetPrincipal reads Principal.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// MustGetPrincipal reads Principal, panics if not exists (used in chains where principal is confirmed).
func MustGetPrincipal(ctx context.Context) Principal {
	p, ok := GetPrincipal(ctx)
	if !ok {
		panic("authz: no principal in context")
	}

	return p
}
