package objects

// PrincipalInfo describes the authenticated caller as seen by the request
// pipeline, echoed by the auth introspection endpoint.
type PrincipalInfo struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId,omitempty"`
	Role     string `json:"role"`
}

// TenantInfo describes the tenant partition a request was scoped to.
type TenantInfo struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
}
