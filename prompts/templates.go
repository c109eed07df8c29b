package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

// Template names known to the manager.
const (
	RiskAssessmentTemplate = "risk_assessment"
	FraudDetectionTemplate = "fraud_detection"
	TrendAnalysisTemplate  = "trend_analysis"
)

const riskAssessmentText = `You are an expert insurance underwriter. Analyze the following application data and provide a comprehensive risk assessment.

Application Data:
{{.application_data}}

Institution Guidelines:
{{.guidelines}}

Please provide:
1. Overall risk score (1-100, where 100 is highest risk)
2. Key risk factors identified
3. Recommended decision (Approve/Deny/Refer for manual review)
4. Specific conditions or premium adjustments if applicable
5. Detailed reasoning for your assessment`

const fraudDetectionText = `You are an expert insurance fraud investigator. Analyze the following claim for potential fraud indicators.

Claim Data:
{{.claim_data}}

Claim History:
{{.claim_history}}

Fraud Detection Rules:
{{.fraud_rules}}

Assess the claim against the rules, looking at timing, amounts, documentation gaps, and description inconsistencies. Provide a fraud risk assessment with the specific indicators found.`

const trendAnalysisText = `You are an expert actuary. Analyze the following portfolio data for statistically meaningful trends.

Portfolio Data:
{{.portfolio_data}}

Analysis Period:
{{.period}}

Identify trends in frequency, severity, and loss development, assess their statistical significance, and state the business implications and recommended actions.`

// Manager renders named prompt templates against caller data.
type Manager struct {
	templates map[string]*template.Template
}

// NewManager creates a manager with the built-in insurance templates.
func NewManager() (*Manager, error) {
	m := &Manager{templates: make(map[string]*template.Template)}
	for name, text := range map[string]string{
		RiskAssessmentTemplate: riskAssessmentText,
		FraudDetectionTemplate: fraudDetectionText,
		TrendAnalysisTemplate:  trendAnalysisText,
	} {
		t, err := template.New(name).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompts: parse %s: %w", name, err)
		}
		m.templates[name] = t
	}
	return m, nil
}

// Names lists the registered template names.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	return names
}

// Render fills the named template with data.
func (m *Manager) Render(name string, data map[string]any) (string, error) {
	t, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("prompts: unknown template %q", name)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("prompts: render %s: %w", name, err)
	}
	return sb.String(), nil
}

// SchemaFor returns the empty typed schema for a template, used to build
// structured generation instructions.
func SchemaFor(name string) (any, error) {
	switch name {
	case RiskAssessmentTemplate:
		return RiskAssessment{}, nil
	case FraudDetectionTemplate:
		return FraudAssessment{}, nil
	case TrendAnalysisTemplate:
		return TrendAnalysis{}, nil
	default:
		return nil, fmt.Errorf("prompts: no schema for template %q", name)
	}
}
