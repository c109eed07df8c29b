package prompts

import (
	"strings"
	"testing"
)

func TestNewManager_RegistersAllTemplates(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	names := m.Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 templates, got %v", names)
	}
	for _, want := range []string{RiskAssessmentTemplate, FraudDetectionTemplate, TrendAnalysisTemplate} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected template %s registered", want)
		}
	}
}

func TestRender_RiskAssessment(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out, err := m.Render(RiskAssessmentTemplate, map[string]any{
		"application_data": `{"applicant": "acme"}`,
		"guidelines":       "coastal exclusions apply",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, `{"applicant": "acme"}`) {
		t.Error("expected application data interpolated")
	}
	if !strings.Contains(out, "coastal exclusions apply") {
		t.Error("expected guidelines interpolated")
	}
}

func TestRender_MissingKeysRenderEmpty(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out, err := m.Render(TrendAnalysisTemplate, map[string]any{
		"portfolio_data": "portfolio goes here",
	})
	if err != nil {
		t.Fatalf("expected missing keys tolerated, got %v", err)
	}
	if !strings.Contains(out, "portfolio goes here") {
		t.Error("expected provided data interpolated")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	m, _ := NewManager()
	if _, err := m.Render("nonexistent", nil); err == nil {
		t.Error("expected an error for an unknown template")
	}
}

func TestSchemaFor(t *testing.T) {
	for _, name := range []string{RiskAssessmentTemplate, FraudDetectionTemplate, TrendAnalysisTemplate} {
		schema, err := SchemaFor(name)
		if err != nil {
			t.Errorf("%s: expected a schema, got %v", name, err)
		}
		if schema == nil {
			t.Errorf("%s: expected a non-nil schema", name)
		}
	}
	if _, err := SchemaFor("nonexistent"); err == nil {
		t.Error("expected an error for an unknown schema")
	}
}
