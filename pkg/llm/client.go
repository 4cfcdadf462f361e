package llm

import (
	"context"
	"time"
)

// DefaultRequestTimeout bounds a single completion request
const DefaultRequestTimeout = 300 * time.Second

// Client is the interface for interacting with LLMs
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ModelConfig holds configuration parameters for model generation.
// Zero values are left out of the request so the server defaults apply.
type ModelConfig struct {
	Temperature   float32
	TopP          float32
	MaxTokens     int
	StopSequences []string
}

// options converts the config into the Ollama options map
func (c ModelConfig) options() map[string]interface{} {
	opts := make(map[string]interface{})
	if c.Temperature > 0 {
		opts["temperature"] = c.Temperature
	}
	if c.TopP > 0 {
		opts["top_p"] = c.TopP
	}
	if c.MaxTokens > 0 {
		opts["num_predict"] = c.MaxTokens
	}
	if len(c.StopSequences) > 0 {
		opts["stop"] = c.StopSequences
	}
	return opts
}
