package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
	"github.com/gaigenticai/insurance-ai-system-sub000/metrics"
	"github.com/gaigenticai/insurance-ai-system-sub000/observability"
	"github.com/gaigenticai/insurance-ai-system-sub000/orchestrator"
	"github.com/gaigenticai/insurance-ai-system-sub000/registry"
	"github.com/gaigenticai/insurance-ai-system-sub000/version"
)

// Handlers binds the service's HTTP routes to the registry, orchestrator,
// and metrics monitor.
type Handlers struct {
	Service      string
	Registry     *registry.Registry
	Orchestrator *orchestrator.Orchestrator
	Monitor      *metrics.Monitor
}

// Register mounts all routes on the engine.
func (h *Handlers) Register(engine *gin.Engine) {
	engine.GET("/health", h.health)
	engine.GET("/version", h.version)
	engine.GET("/services", h.services)
	engine.GET("/metrics/ai", h.aiMetrics)

	v1 := engine.Group("/v1")
	v1.POST("/generate", h.generate)
	v1.POST("/analyze/underwriting", h.analyzeUnderwriting)
	v1.POST("/analyze/claims", h.analyzeClaims)
	v1.POST("/analyze/actuarial", h.analyzeActuarial)
}

func (h *Handlers) health(c *gin.Context) {
	report := h.Registry.HealthCheck(c.Request.Context())

	doc := observability.NewServiceHealth(h.Service, version.Short())
	for name, svc := range report.Services {
		component := observability.Health{Name: name, Message: svc.Error}
		if svc.Status == "healthy" {
			component.Status = observability.HealthStatusUp
		} else {
			component.Status = observability.HealthStatusDown
		}
		doc.AddComponent(component)
	}

	// Anything short of fully up is unavailable to supervisors.
	status := http.StatusOK
	if doc.Status != observability.HealthStatusUp {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, doc)
}

func (h *Handlers) version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

func (h *Handlers) services(c *gin.Context) {
	RespondOK(c, h.Registry.Info())
}

func (h *Handlers) aiMetrics(c *gin.Context) {
	windowHours := 24
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondWithError(c, apperrors.InvalidInput("metrics", "window must be a positive integer"))
			return
		}
		windowHours = parsed
	}
	c.JSON(http.StatusOK, h.Monitor.Export(windowHours))
}

type generateRequest struct {
	Prompt       string  `json:"prompt" binding:"required"`
	SystemPrompt string  `json:"system_prompt"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

type generateResponse struct {
	Content    string     `json:"content"`
	Model      string     `json:"model"`
	Provider   string     `json:"provider"`
	Confidence float64    `json:"confidence,omitempty"`
	Usage      *llm.Usage `json:"usage,omitempty"`
}

func (h *Handlers) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("api", err.Error()))
		return
	}

	resp := h.Orchestrator.Generate(c.Request.Context(), "api.generate", llm.Request{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Model:        req.Model,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if resp.Degraded() {
		RespondWithError(c, resp.Err)
		return
	}

	RespondOK(c, generateResponse{
		Content:    resp.Content,
		Model:      resp.Model,
		Provider:   resp.Provider,
		Confidence: resp.Confidence,
		Usage:      resp.Usage,
	})
}

type analysisMeta struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type analysisResponse struct {
	Result any          `json:"result"`
	Meta   analysisMeta `json:"meta"`
}

type underwritingRequest struct {
	ApplicationData string `json:"application_data" binding:"required"`
	Guidelines      string `json:"guidelines"`
}

func (h *Handlers) analyzeUnderwriting(c *gin.Context) {
	var req underwritingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("api", err.Error()))
		return
	}

	assessment, resp := h.Orchestrator.AnalyzeUnderwriting(c.Request.Context(), req.ApplicationData, req.Guidelines)
	if resp.Degraded() {
		RespondWithError(c, resp.Err)
		return
	}
	RespondOK(c, analysisResponse{
		Result: assessment,
		Meta:   analysisMeta{Provider: resp.Provider, Model: resp.Model},
	})
}

type claimsRequest struct {
	ClaimData    string `json:"claim_data" binding:"required"`
	ClaimHistory string `json:"claim_history"`
	FraudRules   string `json:"fraud_rules"`
}

func (h *Handlers) analyzeClaims(c *gin.Context) {
	var req claimsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("api", err.Error()))
		return
	}

	assessment, resp := h.Orchestrator.AnalyzeClaims(c.Request.Context(), req.ClaimData, req.ClaimHistory, req.FraudRules)
	if resp.Degraded() {
		RespondWithError(c, resp.Err)
		return
	}
	RespondOK(c, analysisResponse{
		Result: assessment,
		Meta:   analysisMeta{Provider: resp.Provider, Model: resp.Model},
	})
}

type actuarialRequest struct {
	PortfolioData string `json:"portfolio_data" binding:"required"`
	Period        string `json:"period"`
}

func (h *Handlers) analyzeActuarial(c *gin.Context) {
	var req actuarialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("api", err.Error()))
		return
	}

	analysis, resp := h.Orchestrator.AnalyzeActuarial(c.Request.Context(), req.PortfolioData, req.Period)
	if resp.Degraded() {
		RespondWithError(c, resp.Err)
		return
	}
	RespondOK(c, analysisResponse{
		Result: analysis,
		Meta:   analysisMeta{Provider: resp.Provider, Model: resp.Model},
	})
}
