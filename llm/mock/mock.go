// Package mock provides an in-process llm.Provider used in development
// environments and tests. Responses are canned, failures are scriptable,
// and every call is counted.
package mock

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
)

// ProviderType is the adapter type registered with the llm factory registry.
const ProviderType = "mock"

func init() {
	llm.RegisterFactory(ProviderType, func(cfg llm.Config) (llm.Provider, error) {
		return NewProvider(cfg), nil
	})
}

const defaultContent = `{"decision": "review", "confidence": 0.75, "reasoning": "mock analysis"}`

// Provider is a deterministic in-process provider.
type Provider struct {
	name  string
	model string

	mu        sync.Mutex
	content   string
	available bool
	calls     int
	failures  []error
}

// NewProvider creates a mock provider that answers every request with a
// canned JSON payload.
func NewProvider(cfg llm.Config) *Provider {
	model := cfg.Model
	if model == "" {
		model = "mock-model"
	}
	return &Provider{
		name:      cfg.Name,
		model:     model,
		content:   defaultContent,
		available: true,
	}
}

// Name returns the provider instance name.
func (p *Provider) Name() string { return p.name }

// IsAvailable reports the scripted availability, true by default.
func (p *Provider) IsAvailable(_ context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// SetAvailable scripts the availability reported by IsAvailable.
func (p *Provider) SetAvailable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = v
}

// SetContent replaces the canned response content.
func (p *Provider) SetContent(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = content
}

// FailNext queues errors to return, one per call, before canned responses
// resume.
func (p *Provider) FailNext(errs ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = append(p.failures, errs...)
}

// Calls returns how many Generate and GenerateStructured calls were made.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Generate returns the canned response or the next scripted failure.
func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.calls++
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		p.mu.Unlock()
		return nil, err
	}
	content := p.content
	p.mu.Unlock()

	return &llm.Response{
		Content:    content,
		Model:      p.model,
		Provider:   p.name,
		Confidence: 0.75,
		Usage: &llm.Usage{
			PromptTokens:     len(req.Prompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(req.Prompt) + len(content)) / 4,
		},
		Metadata: map[string]string{"adapter": ProviderType},
	}, nil
}

// GenerateStructured behaves like Generate and validates the canned content
// parses as JSON.
func (p *Provider) GenerateStructured(ctx context.Context, req llm.Request, schema any) (*llm.Response, error) {
	prompt, err := llm.StructuredPrompt(req.Prompt, schema)
	if err != nil {
		return nil, err
	}
	req.Prompt = prompt

	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateStructured(p.name, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DecodeContent unmarshals the canned content into v, a convenience for
// tests asserting structured output.
func DecodeContent(resp *llm.Response, v any) error {
	return json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), v)
}

var _ llm.Provider = (*Provider)(nil)
