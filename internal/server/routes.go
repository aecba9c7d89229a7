package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/tidescale/crmhub/internal/authz"
	"github.com/tidescale/crmhub/internal/sanitize"
	"github.com/tidescale/crmhub/internal/server/api"
	"github.com/tidescale/crmhub/internal/server/biz"
	"github.com/tidescale/crmhub/internal/server/middleware"
	"github.com/tidescale/crmhub/internal/tenant"
)

type Handlers struct {
	fx.In

	Leads  *api.LeadHandlers
	Deals  *api.DealHandlers
	Auth   *api.AuthHandlers
	System *api.SystemHandlers
}

type Pipeline struct {
	fx.In

	Sanitizer   *sanitize.Sanitizer
	Resolver    *tenant.Resolver
	AuthConfig  biz.AuthConfig
	AuthService *biz.AuthService
	Authorizer  *middleware.Authorizer
}

func SetupRoutes(server *Server, handlers Handlers, pipeline Pipeline) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	// Health and build info bypass the request pipeline.
	server.GET("/healthz", handlers.System.Health)
	server.GET("/healthz/build", handlers.System.BuildInfo)

	// The pipeline order is fixed: sanitize before anything reads the
	// request, resolve the tenant before authentication, authenticate before
	// any authorization decision.
	v1 := server.Group(server.Config.BasePath+"/v1",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithSanitizer(pipeline.Sanitizer),
		middleware.WithTenantResolver(pipeline.Resolver),
		middleware.WithAuth(pipeline.AuthConfig, pipeline.AuthService),
	)

	v1.GET("/auth/me", handlers.Auth.Me)

	require := pipeline.Authorizer.Require

	leads := v1.Group("/leads")
	{
		leads.GET("", require(authz.ResourceLeads, authz.ActionRead), handlers.Leads.List)
		leads.POST("", require(authz.ResourceLeads, authz.ActionWrite), handlers.Leads.Create)
		leads.GET("/export", require(authz.ResourceLeads, authz.ActionExport), handlers.Leads.Export)
		leads.GET("/:id", require(authz.ResourceLeads, authz.ActionRead), handlers.Leads.Get)
		leads.PUT("/:id", require(authz.ResourceLeads, authz.ActionWrite), handlers.Leads.Update)
		leads.DELETE("/:id", require(authz.ResourceLeads, authz.ActionDelete), handlers.Leads.Delete)
		leads.POST("/:id/share", require(authz.ResourceLeads, authz.ActionShare), handlers.Leads.Share)
		leads.POST("/:id/assign", require(authz.ResourceLeads, authz.ActionWrite), handlers.Leads.Assign)
	}

	deals := v1.Group("/deals")
	{
		deals.GET("", require(authz.ResourceDeals, authz.ActionRead), handlers.Deals.List)
		deals.POST("", require(authz.ResourceDeals, authz.ActionWrite), handlers.Deals.Create)
		deals.GET("/export", require(authz.ResourceDeals, authz.ActionExport), handlers.Deals.Export)
		deals.GET("/:id", require(authz.ResourceDeals, authz.ActionRead), handlers.Deals.Get)
		deals.PUT("/:id", require(authz.ResourceDeals, authz.ActionWrite), handlers.Deals.Update)
		deals.DELETE("/:id", require(authz.ResourceDeals, authz.ActionDelete), handlers.Deals.Delete)
		deals.POST("/:id/share", require(authz.ResourceDeals, authz.ActionShare), handlers.Deals.Share)
		deals.POST("/:id/assign", require(authz.ResourceDeals, authz.ActionWrite), handlers.Deals.Assign)
	}
}
