package llm

// Request is the universal input for all providers.
type Request struct {
	// Prompt is the user prompt text.
	Prompt string `json:"prompt"`
	// SystemPrompt is prepended as a system message when the backend supports it.
	SystemPrompt string `json:"system_prompt,omitempty"`
	// Model overrides the adapter's default model.
	Model string `json:"model,omitempty"`
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens limits the response length. 0 means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
	// Metadata holds caller context carried through to metric events.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Usage reports token consumption for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the universal output from all providers.
//
// Err carries operationally-expected failure (total outage, degraded mode)
// as data on the normal control path; callers check Err, they do not catch.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`
	// Model is the model that produced the response.
	Model string `json:"model"`
	// Provider is the name of the backend that produced the response.
	Provider string `json:"provider,omitempty"`
	// Confidence is an optional self-reported confidence score in [0,1].
	Confidence float64 `json:"confidence,omitempty"`
	// Usage reports token consumption, when the backend provides it.
	Usage *Usage `json:"usage,omitempty"`
	// Metadata holds adapter-specific annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
	// Err is set on a degraded response.
	Err error `json:"-"`
}

// Degraded reports whether the response is a degraded value rather than a
// real completion.
func (r *Response) Degraded() bool { return r != nil && r.Err != nil }
