package llm

import "context"

// Provider is the interface that inference backends must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string

	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool

	// Generate sends a completion request and returns the full response.
	Generate(ctx context.Context, req Request) (*Response, error)

	// GenerateStructured sends a completion request expecting JSON output
	// matching schema. Schema instructions are appended to the prompt and the
	// response content is validated to parse as JSON before returning.
	GenerateStructured(ctx context.Context, req Request, schema any) (*Response, error)
}

// Closeable is optionally implemented by providers holding resources that
// need explicit cleanup. The registry calls Close during shutdown.
type Closeable interface {
	Close(ctx context.Context) error
}
