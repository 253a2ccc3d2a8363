// Package api exposes the provisioning pipeline over HTTP: the builder
// surface for validating and creating agents, the agent surface for chat
// and lifecycle, and a WebSocket channel for streaming conversations.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agentforge/internal/catalog"
	"agentforge/internal/classifier"
	"agentforge/internal/factory"
	"agentforge/internal/monitoring"
	"agentforge/internal/providers"
	"agentforge/internal/store"
	"agentforge/internal/templates"
	"agentforge/internal/validation"
)

// Server wires the pipeline components behind the HTTP surface.
type Server struct {
	Router *gin.Engine

	store      *store.Store
	factory    *factory.Factory
	templates  *templates.Manager
	providers  *providers.Manager
	catalog    *catalog.Catalog
	classifier *classifier.Classifier
	structural *validation.StructuralValidator
	semantic   *validation.IntelligentValidator
	metrics    *monitoring.MetricsCollector
	monitor    *monitoring.Monitor
	logger     *zap.Logger
}

// Options collect the server dependencies.
type Options struct {
	Store      *store.Store
	Factory    *factory.Factory
	Templates  *templates.Manager
	Providers  *providers.Manager
	Catalog    *catalog.Catalog
	Classifier *classifier.Classifier
	Semantic   *validation.IntelligentValidator
	Metrics    *monitoring.MetricsCollector
	Monitor    *monitoring.Monitor
	Logger     *zap.Logger
	JWTSecret  string
}

// NewServer builds the router with all routes registered. When JWTSecret is
// empty the API is open, which is only appropriate for local development.
func NewServer(opts Options) *Server {
	router := gin.Default()

	s := &Server{
		Router:     router,
		store:      opts.Store,
		factory:    opts.Factory,
		templates:  opts.Templates,
		providers:  opts.Providers,
		catalog:    opts.Catalog,
		classifier: opts.Classifier,
		structural: validation.NewStructuralValidator(opts.Catalog),
		semantic:   opts.Semantic,
		metrics:    opts.Metrics,
		monitor:    opts.Monitor,
		logger:     opts.Logger,
	}

	router.GET("/health", s.Health)

	v1 := router.Group("/api/v1")
	if opts.JWTSecret != "" {
		v1.Use(AuthMiddleware(opts.JWTSecret))
	}
	{
		builder := v1.Group("/builder")
		builder.POST("/validate-specification", s.ValidateSpecification)
		builder.POST("/analyze-context", s.AnalyzeContext)
		builder.POST("/create-agent", s.CreateAgent)
		builder.GET("/templates", s.ListTemplates)
		builder.POST("/create-from-template", s.CreateFromTemplate)
		builder.POST("/recommend-template", s.RecommendTemplate)
		builder.POST("/recommend-tools", s.RecommendTools)
		builder.GET("/tools", s.ListTools)
		builder.GET("/providers", s.ListProviders)
		builder.GET("/domains", s.ListDomains)

		agents := v1.Group("/agents")
		agents.GET("", s.ListAgents)
		agents.GET("/:id", s.GetAgent)
		agents.PUT("/:id", s.UpdateAgent)
		agents.DELETE("/:id", s.DeleteAgent)
		agents.POST("/:id/chat", s.Chat)
		agents.GET("/:id/sessions", s.ListSessions)
		agents.GET("/:id/sessions/:session_id", s.GetSession)
		agents.DELETE("/:id/sessions/:session_id", s.DeleteSession)
		agents.GET("/:id/performance", s.GetPerformance)
	}

	router.GET("/ws/agents/:id/chat", s.ChatWebSocket)

	return s
}

// Health reports service liveness plus the monitor snapshot.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "agentforge",
		"metrics": s.monitor.Snapshot(),
	})
}
