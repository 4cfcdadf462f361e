package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateCall struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  *bool                  `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

func TestOllamaClientComplete(t *testing.T) {
	var got generateCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    got.Model,
			"response": "업무 시간은 오전 9시부터 오후 6시까지입니다.",
			"done":     true,
		})
	}))
	defer srv.Close()

	client, err := NewOllamaClient("qwen3:1.7b", srv.URL+"/", ModelConfig{Temperature: 0.2, MaxTokens: 256, StopSequences: []string{"</answer>"}})
	require.NoError(t, err)
	defer client.Close()

	answer, err := client.Complete(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "업무 시간은 오전 9시부터 오후 6시까지입니다.", answer)

	assert.Equal(t, "qwen3:1.7b", got.Model)
	assert.Equal(t, "prompt text", got.Prompt)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	assert.InDelta(t, 0.2, got.Options["temperature"], 0.001)
	assert.EqualValues(t, 256, got.Options["num_predict"])
	assert.Equal(t, []interface{}{"</answer>"}, got.Options["stop"])
	assert.NotContains(t, got.Options, "top_p")
}

func TestOllamaClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'missing' not found"}`))
	}))
	defer srv.Close()

	client, err := NewOllamaClient("missing", srv.URL, ModelConfig{})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOllamaClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := NewOllamaClientWithHTTP("qwen3:1.7b", srv.URL, ModelConfig{}, &http.Client{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hi")
	assert.Error(t, err)
}

func TestNewOllamaClientValidation(t *testing.T) {
	_, err := NewOllamaClient("qwen3:1.7b", "http://localhost:11434", ModelConfig{})
	require.NoError(t, err)

	_, err = NewOllamaClient("", "http://localhost:11434", ModelConfig{})
	assert.Error(t, err)

	_, err = NewOllamaClient("qwen3:1.7b", "", ModelConfig{})
	assert.Error(t, err)
}

func TestModelConfigOptions(t *testing.T) {
	assert.Empty(t, ModelConfig{}.options())

	opts := ModelConfig{Temperature: 0.7, TopP: 0.9, MaxTokens: 2048, StopSequences: []string{"</s>"}}.options()
	assert.Len(t, opts, 4)
	assert.Equal(t, []string{"</s>"}, opts["stop"])
}
