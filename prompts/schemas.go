package prompts

// RiskAssessment is the structured result of an underwriting analysis.
type RiskAssessment struct {
	RiskScore         float64  `json:"risk_score"`
	RiskFactors       []string `json:"risk_factors"`
	Decision          string   `json:"decision"`
	Conditions        []string `json:"conditions,omitempty"`
	PremiumAdjustment float64  `json:"premium_adjustment,omitempty"`
	Reasoning         string   `json:"reasoning"`
}

// FraudIndicator is one suspicious signal found in a claim.
type FraudIndicator struct {
	Indicator string `json:"indicator"`
	Severity  string `json:"severity"`
	Evidence  string `json:"evidence,omitempty"`
}

// FraudAssessment is the structured result of a claims fraud analysis.
type FraudAssessment struct {
	FraudRiskScore        float64          `json:"fraud_risk_score"`
	FraudIndicators       []FraudIndicator `json:"fraud_indicators"`
	Recommendation        string           `json:"recommendation"`
	InvestigationPriority string           `json:"investigation_priority,omitempty"`
	SuggestedActions      []string         `json:"suggested_actions,omitempty"`
	Reasoning             string           `json:"reasoning"`
}

// Trend is one pattern identified in actuarial data.
type Trend struct {
	TrendName               string  `json:"trend_name"`
	Description             string  `json:"description"`
	StatisticalSignificance float64 `json:"statistical_significance"`
	Direction               string  `json:"direction"`
	Magnitude               string  `json:"magnitude"`
	Timeframe               string  `json:"timeframe,omitempty"`
}

// TrendAnalysis is the structured result of an actuarial analysis.
type TrendAnalysis struct {
	TrendsIdentified     []Trend  `json:"trends_identified"`
	BusinessImplications []string `json:"business_implications"`
	Recommendations      []string `json:"recommendations"`
}
