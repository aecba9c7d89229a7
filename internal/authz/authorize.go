package authz

import (
	"context"

	"github.com/samber/lo"

	"github.com/tidescale/crmhub/internal/log"
)

// Reason classifies why a decision came out the way it did. Allow and deny
// reasons are distinguishable in audit records even when they present
// identically to the caller.
type Reason string

const (
	// ReasonNoPrincipal: the route is unauthenticated; this stage defers.
	ReasonNoPrincipal Reason = "no_principal"
	// ReasonNoRequirement: the route declares no resource/action constraint.
	ReasonNoRequirement Reason = "no_requirement"
	// ReasonGranted: a permission entry satisfied the requirement.
	ReasonGranted Reason = "granted"
	// ReasonUnknownRole: the role is absent from the permission table.
	ReasonUnknownRole Reason = "unknown_role"
	// ReasonInsufficientPermissions: the role holds no matching permission.
	ReasonInsufficientPermissions Reason = "insufficient_permissions"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Authorize decides whether a request may proceed, given the principal and
// the route-declared resource/action requirement. It is a pure function of
// its inputs and the table: no I/O, deterministic, idempotent.
//
// Rules, in order:
//  1. No principal → allow. Requiring authentication is not this stage's job.
//  2. No resource or no action declared → allow.
//  3. Role absent from the table → deny with ReasonUnknownRole. Unknown roles
//     are never treated as low- or high-privilege.
//  4. Allow iff at least one entry matches; otherwise deny with
//     ReasonInsufficientPermissions.
func Authorize(p *Principal, resource string, action Action, table PermissionTable) Decision {
	if p == nil {
		return Decision{Allowed: true, Reason: ReasonNoPrincipal}
	}

	if resource == "" || action == "" {
		return Decision{Allowed: true, Reason: ReasonNoRequirement}
	}

	perms, ok := table.Permissions(p.Role)
	if !ok {
		return Decision{Allowed: false, Reason: ReasonUnknownRole}
	}

	for _, perm := range perms {
		if perm.Matches(resource, action) {
			return Decision{Allowed: true, Reason: ReasonGranted}
		}
	}

	return Decision{Allowed: false, Reason: ReasonInsufficientPermissions}
}

// AuthorizeContext runs Authorize against the principal installed in ctx and
// logs the decision for observability.
func AuthorizeContext(ctx context.Context, resource string, action Action, table PermissionTable) Decision {
	var principal *Principal
	if p, ok := GetPrincipal(ctx); ok {
		principal = &p
	}

	decision := Authorize(principal, resource, action, table)

	log.Debug(ctx, "authz: decision",
		log.String("principal", principalString(principal)),
		log.String("resource", resource),
		log.String("action", string(action)),
		log.String("decision", lo.Ternary(decision.Allowed, "allow", "deny")),
		log.String("reason", string(decision.Reason)),
	)

	return decision
}

func principalString(p *Principal) string {
	if p == nil {
		return "anonymous"
	}

	return p.String()
}

type decisionKey struct{}

// WithDecision annotates ctx with the decision made for the request.
func WithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, d)
}

// GetDecision returns the decision recorded for the request, if any.
func GetDecision(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(decisionKey{}).(Decision)
	return d, ok
}
