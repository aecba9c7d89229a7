// Package tenant determines which tenant partition a request belongs to.
//
// Four candidate sources are consulted in strict precedence order: an explicit
// tenant header, the host subdomain (minus reserved labels), a tenant carried
// by the authenticated principal, and a tenant query parameter. The first
// non-empty source wins. Resolving no tenant is not an error; routes that
// need one enforce that themselves.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidescale/crmhub/internal/authz"
)

// ErrInvalidTenantContext marks requests whose host or query could not be
// parsed. Resolution never proceeds with an ambiguous tenant.
var ErrInvalidTenantContext = errors.New("tenant: invalid tenant context")

// Source identifies which candidate produced the tenant.
type Source string

const (
	SourceHeader    Source = "header"
	SourceSubdomain Source = "subdomain"
	SourceToken     Source = "token"
	SourceQuery     Source = "query"
	SourceNone      Source = "none"
)

// Config controls resolution.
type Config struct {
	// Header is the explicit tenant header. Defaults to X-Tenant-ID.
	Header string `conf:"header" yaml:"header" json:"header"`

	// QueryParam is the fallback query parameter. Defaults to "tenant".
	QueryParam string `conf:"query_param" yaml:"query_param" json:"query_param"`

	// ExcludedSubdomains are host labels never treated as tenants.
	// Defaults to www, api and app.
	ExcludedSubdomains []string `conf:"excluded_subdomains" yaml:"excluded_subdomains" json:"excluded_subdomains"`
}

func (c Config) header() string {
	if c.Header != "" {
		return c.Header
	}

	return "X-Tenant-ID"
}

func (c Config) queryParam() string {
	if c.QueryParam != "" {
		return c.QueryParam
	}

	return "tenant"
}

func (c Config) excluded() []string {
	if len(c.ExcludedSubdomains) > 0 {
		return c.ExcludedSubdomains
	}

	return []string{"www", "api", "app"}
}

// Resolution is the outcome of resolving a request's tenant.
type Resolution struct {
	TenantID string
	Source   Source
}

// Resolver resolves tenants from requests. Stateless and safe for concurrent
// use.
type Resolver struct {
	config Config
}

func NewResolver(config Config) *Resolver {
	return &Resolver{config: config}
}

// Resolve determines the tenant governing the request. An empty Resolution
// with SourceNone means no source yielded a value, which is not an error.
//
// The third source is the tenant carried by an already-authenticated
// principal. In the standard pipeline authentication runs after tenant
// resolution, so that slot is normally still empty here; it exists so
// deployments that authenticate earlier keep the documented precedence.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (Resolution, error) {
	if tenantID := strings.TrimSpace(req.Header.Get(r.config.header())); tenantID != "" {
		return Resolution{TenantID: tenantID, Source: SourceHeader}, nil
	}

	tenantID, err := r.subdomain(req.Host)
	if err != nil {
		return Resolution{}, err
	}

	if tenantID != "" {
		return Resolution{TenantID: tenantID, Source: SourceSubdomain}, nil
	}

	if p, ok := authz.GetPrincipal(ctx); ok && p.TenantID != "" {
		return Resolution{TenantID: p.TenantID, Source: SourceToken}, nil
	}

	// Query fallback exists for callback/webhook callers that cannot set
	// headers. It is intentionally not restricted to callback paths; see the
	// resolver design notes before narrowing it.
	values, err := url.ParseQuery(req.URL.RawQuery)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: malformed query: %v", ErrInvalidTenantContext, err)
	}

	if tenantID := strings.TrimSpace(values.Get(r.config.queryParam())); tenantID != "" {
		return Resolution{TenantID: tenantID, Source: SourceQuery}, nil
	}

	return Resolution{Source: SourceNone}, nil
}

// subdomain extracts the first host label as a tenant candidate. Hosts with
// fewer than three labels have no subdomain. Reserved labels resolve to no
// tenant rather than an error.
func (r *Resolver) subdomain(host string) (string, error) {
	if host == "" {
		return "", nil
	}

	if strings.Contains(host, ":") {
		var err error

		host, _, err = net.SplitHostPort(host)
		if err != nil {
			return "", fmt.Errorf("%w: malformed host: %v", ErrInvalidTenantContext, err)
		}
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return "", nil
	}

	first := strings.ToLower(labels[0])
	if first == "" {
		return "", fmt.Errorf("%w: empty host label", ErrInvalidTenantContext)
	}

	for _, reserved := range r.config.excluded() {
		if first == strings.ToLower(reserved) {
			return "", nil
		}
	}

	return first, nil
}
