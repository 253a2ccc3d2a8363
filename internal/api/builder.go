package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agentforge/internal/factory"
	"agentforge/internal/spec"
	"agentforge/internal/store"
	"agentforge/internal/templates"
)

type validateSpecificationRequest struct {
	UserInput     string             `json:"user_input" binding:"required"`
	Specification spec.Specification `json:"specification" binding:"required"`
}

// ValidateSpecification runs both validation stages and returns their
// combined verdict without persisting anything.
func (s *Server) ValidateSpecification(c *gin.Context) {
	var req validateSpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	structural := s.structural.Validate(&req.Specification)
	semantic := s.semantic.Validate(req.UserInput, &req.Specification)

	s.metrics.RecordValidation("structural", structural.IsValid, float64(structural.Score))
	s.metrics.RecordValidation("semantic", semantic.IsValid, semantic.Score)

	c.JSON(http.StatusOK, gin.H{
		"is_valid":   structural.IsValid && semantic.IsValid,
		"structural": structural,
		"semantic":   semantic,
	})
}

type analyzeContextRequest struct {
	UserInput string `json:"user_input" binding:"required"`
}

// AnalyzeContext exposes the classifier directly.
func (s *Server) AnalyzeContext(c *gin.Context) {
	var req analyzeContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"context_analysis": s.classifier.Classify(req.UserInput),
	})
}

type createAgentRequest struct {
	Specification spec.Specification `json:"specification" binding:"required"`
	UserInput     string             `json:"user_input"`
	CreatedBy     string             `json:"created_by"`
}

// CreateAgent provisions an agent from a specification. When the original
// user input is supplied, the semantic report is attached for context; only
// the structural gate blocks creation.
func (s *Server) CreateAgent(c *gin.Context) {
	var req createAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var semanticReport interface{}
	if req.UserInput != "" {
		report := s.semantic.Validate(req.UserInput, &req.Specification)
		s.metrics.RecordValidation("semantic", report.IsValid, report.Score)
		semanticReport = report
	}

	result, err := s.factory.CreateFromSpecification(c.Request.Context(), &req.Specification, req.CreatedBy)
	s.metrics.RecordValidation("structural", result.Validation.IsValid, float64(result.Validation.Score))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, factory.ErrInvalidSpecification):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, store.ErrDuplicateSlug):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error":    err.Error(),
			"result":   result,
			"semantic": semanticReport,
		})
		return
	}

	s.metrics.RecordAgentCreated()
	s.monitor.Record("last_agent_created", result.AgentID)
	s.logger.Info("agent provisioned via API",
		zap.String("agent_id", result.AgentID),
		zap.String("created_by", req.CreatedBy))

	c.JSON(http.StatusCreated, gin.H{
		"result":   result,
		"semantic": semanticReport,
	})
}

// ListTemplates lists the built-in templates.
func (s *Server) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": s.templates.Available()})
}

type createFromTemplateRequest struct {
	Template       string                 `json:"template" binding:"required"`
	Customizations templateCustomizations `json:"customizations"`
	CreatedBy      string                 `json:"created_by"`
	DryRun         bool                   `json:"dry_run"`
}

type templateCustomizations struct {
	Specialization   string                   `json:"specialization"`
	Model            *templates.ModelOverride `json:"model_config"`
	ToolsConfig      []spec.ToolConfig        `json:"tools_config"`
	KnowledgeSources []string                 `json:"knowledge_base"`
	SystemMessage    string                   `json:"instructions"`
}

// CreateFromTemplate instantiates a template and, unless dry_run is set,
// provisions the resulting agent.
func (s *Server) CreateFromTemplate(c *gin.Context) {
	var req createFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	generated, err := s.templates.CreateFromTemplate(req.Template, templates.Customizations{
		Specialization:   req.Customizations.Specialization,
		Model:            req.Customizations.Model,
		ToolsConfig:      req.Customizations.ToolsConfig,
		KnowledgeSources: req.Customizations.KnowledgeSources,
		SystemMessage:    req.Customizations.SystemMessage,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if req.DryRun {
		c.JSON(http.StatusOK, gin.H{"specification": generated})
		return
	}

	result, err := s.factory.CreateFromSpecification(c.Request.Context(), &generated, req.CreatedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
		return
	}
	s.metrics.RecordAgentCreated()
	c.JSON(http.StatusCreated, gin.H{"result": result, "specification": generated})
}

type recommendTemplateRequest struct {
	Description string `json:"description" binding:"required"`
}

// RecommendTemplate matches a description to a template slug.
func (s *Server) RecommendTemplate(c *gin.Context) {
	var req recommendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug, ok := s.templates.Recommend(req.Description)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"recommended_template": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommended_template": slug})
}

type recommendToolsRequest struct {
	UserInput string `json:"user_input" binding:"required"`
}

// RecommendTools suggests tools for the domains detected in the input.
func (s *Server) RecommendTools(c *gin.Context) {
	var req recommendToolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis := s.classifier.Classify(req.UserInput)
	seen := make(map[string]bool)
	var recommended []string
	for _, domain := range analysis.DetectedDomains {
		for _, tool := range s.catalog.DomainTools(domain.Domain) {
			if !seen[tool] {
				seen[tool] = true
				recommended = append(recommended, tool)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"recommended_tools": recommended,
		"context_analysis":  analysis,
	})
}

// ListTools lists the registered tool identifiers.
func (s *Server) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.catalog.Names()})
}

// ListProviders reports provider availability and model catalogs.
func (s *Server) ListProviders(c *gin.Context) {
	available := s.providers.AvailableProviders()
	models := make(map[string][]string, len(available))
	for _, name := range available {
		models[name] = s.providers.ModelsFor(name)
	}
	c.JSON(http.StatusOK, gin.H{
		"available_providers": available,
		"models":              models,
		"recommendations":     s.providers.Recommendations(),
		"fallback":            s.providers.Fallback(),
	})
}

// ListDomains reports the domains the classifier knows and their expected
// tools.
func (s *Server) ListDomains(c *gin.Context) {
	domains := s.catalog.Domains()
	out := make([]gin.H, 0, len(domains))
	for _, domain := range domains {
		out = append(out, gin.H{
			"domain":         domain,
			"expected_tools": s.catalog.DomainTools(domain),
		})
	}
	c.JSON(http.StatusOK, gin.H{"domains": out})
}
