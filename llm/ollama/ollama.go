// Package ollama implements the llm.Provider interface against the native
// Ollama HTTP API, covering self-hosted models.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
)

const (
	// ProviderType is the adapter type registered with the llm factory registry.
	ProviderType = "ollama"

	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3"
)

func init() {
	llm.RegisterFactory(ProviderType, func(cfg llm.Config) (llm.Provider, error) {
		return NewProvider(cfg), nil
	})
}

// Provider implements llm.Provider using Ollama's HTTP API.
type Provider struct {
	name        string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewProvider creates a new Ollama provider.
func NewProvider(cfg llm.Config) *Provider {
	cfg.ApplyDefaults()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		name:        cfg.Name,
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider instance name.
func (p *Provider) Name() string { return p.name }

// IsAvailable checks if the Ollama server is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Generate sends a chat request and returns the full response.
func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return p.chat(ctx, req, nil)
}

// GenerateStructured sends a chat request in JSON format mode. The schema
// instructions are appended to the prompt and the response is validated to
// parse as JSON.
func (p *Provider) GenerateStructured(ctx context.Context, req llm.Request, schema any) (*llm.Response, error) {
	prompt, err := llm.StructuredPrompt(req.Prompt, schema)
	if err != nil {
		return nil, err
	}
	req.Prompt = prompt

	resp, err := p.chat(ctx, req, "json")
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateStructured(p.name, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *Provider) chat(ctx context.Context, req llm.Request, format any) (*llm.Response, error) {
	body, err := json.Marshal(p.buildChatRequest(req, format))
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, llm.ClassifyTransportError(p.name, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, llm.ClassifyTransportError(p.name, err)
	}
	if classified := llm.ClassifyHTTPStatus(p.name, httpResp.StatusCode, string(respBody)); classified != nil {
		return nil, classified
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("ollama: unmarshal response: %w", err)
	}

	return &llm.Response{
		Content:  chatResp.Message.Content,
		Model:    chatResp.Model,
		Provider: p.name,
		Usage: &llm.Usage{
			PromptTokens:     chatResp.PromptEvalCount,
			CompletionTokens: chatResp.EvalCount,
			TotalTokens:      chatResp.PromptEvalCount + chatResp.EvalCount,
		},
		Metadata: map[string]string{"adapter": ProviderType},
	}, nil
}

// --- internal Ollama API types ---

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   any                 `json:"format,omitempty"`
	Options  ollamaOptions       `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string            `json:"model"`
	Message         ollamaChatMessage `json:"message"`
	Done            bool              `json:"done"`
	PromptEvalCount int               `json:"prompt_eval_count,omitempty"`
	EvalCount       int               `json:"eval_count,omitempty"`
}

func (p *Provider) buildChatRequest(req llm.Request, format any) ollamaChatRequest {
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

	msgs := make([]ollamaChatMessage, 0, 2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, ollamaChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, ollamaChatMessage{Role: "user", Content: req.Prompt})

	return ollamaChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   false,
		Format:   format,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  maxTokens,
		},
	}
}
