package llm

import (
	"context"
	"fmt"
)

// Provider selects the backing model API.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderGroq   Provider = "groq"
	ProviderVertex Provider = "vertex"
)

// Client is an abstraction over the language-model providers. All three
// screening boundaries (structured extraction, rubric scoring, notification
// drafting) go through it; callers treat a failure as a signal to take
// their deterministic fallback path.
type Client interface {
	// GenerateContent sends a prompt to the model and returns the textual response.
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Options configures client construction.
type Options struct {
	Provider Provider
	APIKey   string
	Model    string

	// Vertex only.
	ProjectID string
	Location  string
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	switch opts.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, opts.APIKey, opts.Model)
	case ProviderGroq:
		return NewGroqClient(opts.APIKey, opts.Model)
	case ProviderVertex:
		return NewVertexClient(ctx, opts.ProjectID, opts.Location, opts.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}
