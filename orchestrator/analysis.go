package orchestrator

import (
	"context"
	"encoding/json"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
	"github.com/gaigenticai/insurance-ai-system-sub000/prompts"
)

// Insurance analysis operation names, used for metrics and cache keys.
const (
	OpUnderwriting = "underwriting.risk_assessment"
	OpClaims       = "claims.fraud_detection"
	OpActuarial    = "actuarial.trend_analysis"
)

// AnalyzeUnderwriting runs a risk assessment over application data. The
// response is always returned; the typed assessment is nil when the response
// is degraded or fails to parse.
func (o *Orchestrator) AnalyzeUnderwriting(ctx context.Context, applicationData, guidelines string) (*prompts.RiskAssessment, *llm.Response) {
	var out prompts.RiskAssessment
	resp := o.analyze(ctx, OpUnderwriting, prompts.RiskAssessmentTemplate, map[string]any{
		"application_data": applicationData,
		"guidelines":       guidelines,
	}, &out)
	if resp.Degraded() {
		return nil, resp
	}
	return &out, resp
}

// AnalyzeClaims runs a fraud analysis over claim data.
func (o *Orchestrator) AnalyzeClaims(ctx context.Context, claimData, claimHistory, fraudRules string) (*prompts.FraudAssessment, *llm.Response) {
	var out prompts.FraudAssessment
	resp := o.analyze(ctx, OpClaims, prompts.FraudDetectionTemplate, map[string]any{
		"claim_data":    claimData,
		"claim_history": claimHistory,
		"fraud_rules":   fraudRules,
	}, &out)
	if resp.Degraded() {
		return nil, resp
	}
	return &out, resp
}

// AnalyzeActuarial runs a trend analysis over portfolio data.
func (o *Orchestrator) AnalyzeActuarial(ctx context.Context, portfolioData, period string) (*prompts.TrendAnalysis, *llm.Response) {
	var out prompts.TrendAnalysis
	resp := o.analyze(ctx, OpActuarial, prompts.TrendAnalysisTemplate, map[string]any{
		"portfolio_data": portfolioData,
		"period":         period,
	}, &out)
	if resp.Degraded() {
		return nil, resp
	}
	return &out, resp
}

// analyze renders the template, runs structured generation with the
// template's schema, and decodes the result into target. Decode failures
// degrade the response in place.
func (o *Orchestrator) analyze(ctx context.Context, operation, templateName string, data map[string]any, target any) *llm.Response {
	prompt, err := o.prompts.Render(templateName, data)
	if err != nil {
		return &llm.Response{Err: apperrors.Internal(err)}
	}

	schema, err := prompts.SchemaFor(templateName)
	if err != nil {
		return &llm.Response{Err: apperrors.Internal(err)}
	}

	resp := o.GenerateStructured(ctx, operation, llm.Request{Prompt: prompt}, schema)
	if resp.Degraded() {
		return resp
	}

	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), target); err != nil {
		resp.Err = apperrors.InvalidResponse(resp.Provider, err)
	}
	return resp
}
