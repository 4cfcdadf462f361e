// Package config resolves the settings of an evaluation run from defaults,
// an optional YAML file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrew/page-eval/pkg/llm"
)

const (
	DefaultDirectory        = "./data"
	DefaultModel            = "qwen3:1.7b"
	DefaultOllamaURL        = "http://0.0.0.0:11434"
	DefaultEvaluateFilePath = "./questions.csv"
)

// ErrNoInput is returned by InputSource when neither a directory nor a file is usable
var ErrNoInput = errors.New("a file path (-f) or a directory path (-d) is required")

// Config holds everything a run needs
type Config struct {
	File             string   `yaml:"file"`
	Directory        string   `yaml:"directory"`
	Model            string   `yaml:"model"`
	OllamaURL        string   `yaml:"ollama_url"`
	EvaluateFilePath string   `yaml:"evaluate_file_path"`
	Debug            bool     `yaml:"debug"`
	Temperature      float32  `yaml:"temperature"`
	TopP             float32  `yaml:"top_p"`
	MaxTokens        int      `yaml:"max_tokens"`
	Stop             []string `yaml:"stop"`

	// DirectorySet records that the directory was chosen explicitly rather than defaulted
	DirectorySet bool `yaml:"-"`
}

// overlay mirrors Config with pointers so a file only overrides the keys it sets
type overlay struct {
	File             *string   `yaml:"file"`
	Directory        *string   `yaml:"directory"`
	Model            *string   `yaml:"model"`
	OllamaURL        *string   `yaml:"ollama_url"`
	EvaluateFilePath *string   `yaml:"evaluate_file_path"`
	Debug            *bool     `yaml:"debug"`
	Temperature      *float32  `yaml:"temperature"`
	TopP             *float32  `yaml:"top_p"`
	MaxTokens        *int      `yaml:"max_tokens"`
	Stop             *[]string `yaml:"stop"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Directory:        DefaultDirectory,
		Model:            DefaultModel,
		OllamaURL:        DefaultOllamaURL,
		EvaluateFilePath: DefaultEvaluateFilePath,
	}
}

// LoadFile applies the keys present in the YAML file at path on top of c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	setString(&c.File, o.File)
	setString(&c.Model, o.Model)
	setString(&c.OllamaURL, o.OllamaURL)
	setString(&c.EvaluateFilePath, o.EvaluateFilePath)
	if o.Directory != nil {
		c.Directory = *o.Directory
		c.DirectorySet = true
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	if o.Temperature != nil {
		c.Temperature = *o.Temperature
	}
	if o.TopP != nil {
		c.TopP = *o.TopP
	}
	if o.MaxTokens != nil {
		c.MaxTokens = *o.MaxTokens
	}
	if o.Stop != nil {
		c.Stop = *o.Stop
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ApplyEnv reads OLLAMA_HOST and OLLAMA_MODEL. A host without scheme gets http://.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if host := strings.TrimSpace(getenv("OLLAMA_HOST")); host != "" {
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		c.OllamaURL = host
	}
	if model := strings.TrimSpace(getenv("OLLAMA_MODEL")); model != "" {
		c.Model = model
	}
}

// InputSource picks the directory or the file to load. The directory wins when it was
// set explicitly or when no file is given, so a lone -f is not shadowed by the default directory.
func (c Config) InputSource() (directory, file string, err error) {
	switch {
	case c.Directory != "" && (c.DirectorySet || c.File == ""):
		return c.Directory, "", nil
	case c.File != "":
		return "", c.File, nil
	default:
		return "", "", ErrNoInput
	}
}

// ModelConfig returns the generation options for the completion client
func (c Config) ModelConfig() llm.ModelConfig {
	return llm.ModelConfig{
		Temperature:   c.Temperature,
		TopP:          c.TopP,
		MaxTokens:     c.MaxTokens,
		StopSequences: c.Stop,
	}
}
