package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaClient sends completion requests to an Ollama server
type OllamaClient struct {
	client    *api.Client
	modelName string
	config    ModelConfig
}

// NewOllamaClient creates a new client for interacting with a local Ollama server.
// Every request is bounded by DefaultRequestTimeout.
func NewOllamaClient(modelName string, baseURL string, config ModelConfig) (*OllamaClient, error) {
	return NewOllamaClientWithHTTP(modelName, baseURL, config, &http.Client{
		Timeout: DefaultRequestTimeout,
	})
}

// NewOllamaClientWithHTTP is NewOllamaClient with a caller supplied HTTP client
func NewOllamaClientWithHTTP(modelName string, baseURL string, config ModelConfig, httpClient *http.Client) (*OllamaClient, error) {
	if modelName == "" {
		return nil, errors.New("model name is required")
	}
	if baseURL == "" {
		return nil, errors.New("Ollama URL is required")
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaClient{
		client:    api.NewClient(base, httpClient),
		modelName: modelName,
		config:    config,
	}, nil
}

// Complete sends prompt to the generate endpoint and blocks until the full answer is back
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   c.modelName,
		Prompt:  prompt,
		Stream:  &stream,
		Options: c.config.options(),
	}

	var answer strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		answer.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", c.modelName, err)
	}

	return answer.String(), nil
}

// Close cleans up any resources
func (c *OllamaClient) Close() error {
	// No cleanup needed for HTTP client
	return nil
}
