package contexts

import (
	"context"
)

// ContextKey defines the context key type.
type ContextKey string

const (
	// containerContextKey is used to store the context container in the context.
	containerContextKey ContextKey = "context_container"
)

// WithTenant stores the resolved tenant identifier and the source it was
// resolved from in the context. The tenant is set-once: a request's tenant is
// immutable after resolution, so later calls on the same request are no-ops.
func WithTenant(ctx context.Context, tenantID string, source string) context.Context {
	container := getContainer(ctx)
	if container.TenantID != nil {
		return withContainer(ctx, container)
	}

	container.TenantID = &tenantID
	container.TenantSource = &source

	return withContainer(ctx, container)
}

// GetTenantID retrieves the resolved tenant identifier from the context.
func GetTenantID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TenantID != nil {
		return *container.TenantID, true
	}

	return "", false
}

// GetTenantSource retrieves the source the tenant was resolved from.
func GetTenantSource(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TenantSource != nil {
		return *container.TenantSource, true
	}

	return "", false
}

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx)
	container.TraceID = &traceID

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	container := getContainer(ctx)
	container.RequestID = &requestID

	return withContainer(ctx, container)
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.RequestID != nil {
		return *container.RequestID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx)
	container.OperationName = &name

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// AddError appends an error to the request's error collection for access
// logging. Safe for concurrent use within a request.
func AddError(ctx context.Context, err error) context.Context {
	container := getContainer(ctx)
	container.mu.Lock()
	container.Errors = append(container.Errors, err)
	container.mu.Unlock()

	return withContainer(ctx, container)
}

// GetErrors retrieves all errors collected during the request.
func GetErrors(ctx context.Context) []error {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	errs := make([]error, len(container.Errors))
	copy(errs, container.Errors)

	return errs
}
