package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tidescale/crmhub/internal/audit"
	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/contexts"
	"github.com/tidescale/crmhub/internal/log"
	"github.com/tidescale/crmhub/internal/metrics"
	"github.com/tidescale/crmhub/internal/tracing"
)

// ErrAccessDenied is the uniform deny response body. Unknown roles and
// missing permissions present identically to the caller; audit records keep
// them apart.
var ErrAccessDenied = errors.New("access denied")

// Authorizer gates routes on the permission table. It decides strictly from
// the principal in the request context and the route's declared requirement.
type Authorizer struct {
	Table authz.PermissionTable
	Audit audit.Sink
}

func NewAuthorizer(table authz.PermissionTable, sink audit.Sink) *Authorizer {
	return &Authorizer{Table: table, Audit: sink}
}

// Require declares the resource/action requirement for a route. Any internal
// failure while deciding fails closed.
func (a *Authorizer) Require(resource string, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		decision, err := a.decide(ctx, resource, action)
		if err != nil {
			log.Error(ctx, "authz: internal fault, failing closed", log.Cause(err))

			a.record(ctx, audit.KindAuthorizerFault, resource, action, "fault")
			metrics.RecordDecision(ctx, false, "fault")
			AbortWithError(c, http.StatusInternalServerError, errors.New("authorization failed"))

			return
		}

		metrics.RecordDecision(ctx, decision.Allowed, string(decision.Reason))

		if !decision.Allowed {
			a.record(ctx, audit.KindDecisionDenied, resource, action, string(decision.Reason))
			AbortWithError(c, http.StatusForbidden, ErrAccessDenied)

			return
		}

		c.Request = c.Request.WithContext(authz.WithDecision(ctx, decision))

		c.Next()
	}
}

// decide wraps the decision in a recover so that any internal fault denies
// rather than crashing or letting the request through.
func (a *Authorizer) decide(ctx context.Context, resource string, action authz.Action) (decision authz.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("authorizer fault: %v", r)
		}
	}()

	decision = authz.AuthorizeContext(ctx, resource, action, a.Table)

	return decision, nil
}

func (a *Authorizer) record(ctx context.Context, kind audit.Kind, resource string, action authz.Action, reason string) {
	if a.Audit == nil {
		return
	}

	event := audit.Event{
		Time:     time.Now(),
		Kind:     kind,
		Resource: resource,
		Action:   string(action),
		Reason:   reason,
	}

	if p, ok := authz.GetPrincipal(ctx); ok {
		event.Principal = p.String()
		event.Role = string(p.Role)
	}

	event.TenantID, _ = contexts.GetTenantID(ctx)
	event.RequestID, _ = tracing.GetRequestID(ctx)

	a.Audit.Record(ctx, event)
}
