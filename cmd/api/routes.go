package main

import (
	"database/sql"
	"time"

	"leadvoice/internal/auth"
	"leadvoice/internal/calls"
	"leadvoice/internal/campaigns"
	"leadvoice/internal/config"
	"leadvoice/internal/dashboard"
	"leadvoice/internal/leads"
	"leadvoice/internal/rbac"
	"leadvoice/internal/voice"
	"leadvoice/internal/webhooks"
	"leadvoice/pkg/utils"

	"github.com/gin-gonic/gin"
)

type deps struct {
	cfg       config.Config
	db        *sql.DB
	tokens    *auth.Manager
	auth      *auth.Service
	leads     *leads.Service
	campaigns *campaigns.Service
	calls     *calls.Service
	dashboard *dashboard.Service
	voiceAPI  *voice.Client
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic; handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandlers := auth.Handlers{Service: d.auth, Tokens: d.tokens}
	leadHandlers := leads.Handlers{Service: d.leads}
	campaignHandlers := campaigns.Handlers{Service: d.campaigns}
	callHandlers := calls.Handlers{Service: d.calls, Provider: d.voiceAPI}
	dashboardHandlers := dashboard.Handlers{Service: d.dashboard}

	// Webhooks are public; the provider endpoint is trusted by shared secret
	// and must acknowledge every delivery.
	wh := r.Group("/api/webhooks")
	{
		wh.POST("/provider", webhooks.ProviderHandler{Calls: d.calls, Secret: d.cfg.Voice.WebhookSecret}.Handle)
		wh.POST("/automation", webhooks.AutomationHandler{Leads: d.leads, Calls: d.calls}.Handle)
		wh.POST("/inbound", webhooks.InboundHandler{Leads: d.leads}.Handle)
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandlers.Register)
		authGroup.POST("/login", authHandlers.Login)
		authGroup.POST("/refresh", authHandlers.Refresh)
		authGroup.GET("/me", auth.RequireAccessToken(d.tokens), authHandlers.Me)
	}

	protected := api.Group("")
	protected.Use(auth.RequireAccessToken(d.tokens))
	{
		lg := protected.Group("/leads")
		{
			lg.GET("", leadHandlers.List)
			lg.GET("/:id", leadHandlers.Get)
			lg.POST("", leadHandlers.Create)
			lg.PUT("/:id", leadHandlers.Update)
			lg.DELETE("/:id", rbac.RequireAdmin(), leadHandlers.Delete)
			lg.POST("/import", leadHandlers.Import)
			lg.POST("/bulk-assign", leadHandlers.BulkAssign)
		}

		cg := protected.Group("/campaigns")
		{
			cg.GET("", campaignHandlers.List)
			cg.GET("/:id", campaignHandlers.Get)
			cg.POST("", campaignHandlers.Create)
			cg.PUT("/:id", campaignHandlers.Update)
			cg.DELETE("/:id", rbac.RequireAdmin(), campaignHandlers.Delete)
			cg.POST("/:id/start", campaignHandlers.Start)
			cg.POST("/:id/pause", campaignHandlers.Pause)
			cg.POST("/:id/leads", campaignHandlers.AddLeads)
		}

		cl := protected.Group("/calls")
		{
			cl.POST("", callHandlers.Create)
			cl.GET("", callHandlers.List)
			cl.GET("/:callId", callHandlers.Get)
			cl.GET("/:callId/events", callHandlers.Events)
		}

		ag := protected.Group("/assistants")
		{
			ag.GET("", callHandlers.ListAssistants)
			ag.GET("/:id", callHandlers.GetAssistant)
			ag.POST("", callHandlers.CreateAssistant)
		}

		dg := protected.Group("/dashboard")
		{
			dg.GET("/stats", dashboardHandlers.Stats)
			dg.GET("/charts", dashboardHandlers.Charts)
		}
	}
}
