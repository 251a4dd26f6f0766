package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const defaultVertexModel = "gemini-1.5-flash"

// VertexClient implements Client against Vertex AI, for deployments that
// authenticate with GCP credentials instead of an API key.
type VertexClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewVertexClient creates a Vertex AI client for the given project.
func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" {
		return nil, errors.New("vertex project id is required")
	}
	if location == "" {
		location = "us-central1"
	}
	if modelName = strings.TrimSpace(modelName); modelName == "" {
		modelName = defaultVertexModel
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)

	return &VertexClient{client: client, model: model}, nil
}

// GenerateContent sends a prompt to the model and returns the response text.
func (c *VertexClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response candidates returned")
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result.WriteString(string(text))
		}
	}

	output := strings.TrimSpace(result.String())
	if output == "" {
		return "", errors.New("vertex api returned empty response")
	}

	return output, nil
}

// Close closes the underlying Vertex AI client.
func (c *VertexClient) Close() error {
	return c.client.Close()
}
