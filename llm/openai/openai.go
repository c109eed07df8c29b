// Package openai implements the llm.Provider interface using the official
// OpenAI Go SDK. It also covers OpenAI-compatible endpoints (vLLM, LiteLLM,
// Azure gateways) via a custom base URL.
package openai

import (
	"context"
	"errors"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
)

const (
	// ProviderType is the adapter type registered with the llm factory registry.
	ProviderType = "openai"

	defaultModel = "gpt-4o-mini"
)

func init() {
	llm.RegisterFactory(ProviderType, func(cfg llm.Config) (llm.Provider, error) {
		return NewProvider(cfg)
	})
}

// Provider implements llm.Provider using the OpenAI chat completions API.
type Provider struct {
	name        string
	model       string
	temperature float64
	maxTokens   int
	client      sdk.Client
}

// NewProvider creates a new OpenAI provider. The API key is resolved from the
// config, falling back to the environment variable named by APIKeyEnv.
func NewProvider(cfg llm.Config) (*Provider, error) {
	cfg.ApplyDefaults()

	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, apperrors.Unauthorized(cfg.Name).
			WithDetail("reason", "missing API key")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Provider{
		name:        cfg.Name,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      sdk.NewClient(opts...),
	}, nil
}

// Name returns the provider instance name.
func (p *Provider) Name() string { return p.name }

// IsAvailable reports whether the provider is configured. Remote reachability
// is discovered on the first call and surfaced through error classification.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return true
}

// Generate sends a chat completion request and returns the full response.
func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := p.client.Chat.Completions.New(ctx, p.toParams(req))
	if err != nil {
		return nil, p.classify(err)
	}
	return p.toResponse(resp), nil
}

// GenerateStructured appends the schema instructions to the prompt and
// validates that the response parses as JSON.
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

func (p *Provider) toParams(req llm.Request) sdk.ChatCompletionNewParams {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	temp := p.temperature
	if req.Temperature != 0 {
		temp = req.Temperature
	}
	maxTokens := p.maxTokens
	if req.MaxTokens != 0 {
		maxTokens = req.MaxTokens
	}

	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, sdk.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, sdk.UserMessage(req.Prompt))

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(model),
		Messages: messages,
	}
	if temp > 0 {
		params.Temperature = sdk.Float(temp)
	}
	if maxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(maxTokens))
	}
	return params
}

func (p *Provider) toResponse(resp *sdk.ChatCompletion) *llm.Response {
	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	return &llm.Response{
		Content:  content,
		Model:    string(resp.Model),
		Provider: p.name,
		Usage: &llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		Metadata: map[string]string{"adapter": ProviderType},
	}
}

// classify maps SDK errors to coded application errors so the orchestrator
// can decide whether an attempt is retryable.
func (p *Provider) classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return llm.ClassifyHTTPStatus(p.name, apiErr.StatusCode, apiErr.Message)
	}
	return llm.ClassifyTransportError(p.name, err)
}
