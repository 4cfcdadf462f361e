// Package ollama talks to the management endpoints of an Ollama server:
// the liveness probe on the base URL and the installed model listing.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/andrew/page-eval/pkg/models"
)

var (
	// ErrTransport is returned when the server cannot be reached at all
	ErrTransport = errors.New("ollama server unreachable")
	// ErrMissingField is returned when a response lacks a required field
	ErrMissingField = errors.New("missing field in ollama response")
)

// Service issues the raw HTTP calls against an Ollama base URL
type Service struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	// Diagnostics receives the raw body of the health probe
	Diagnostics io.Writer
}

// NewService creates a Service for baseURL. httpClient may be nil, in which case
// a client without timeout is used.
func NewService(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Service, error) {
	base, err := NormalizeURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		baseURL:     base,
		httpClient:  httpClient,
		logger:      logger,
		Diagnostics: io.Discard,
	}, nil
}

// NormalizeURL validates an Ollama base URL and strips any trailing slash
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid ollama URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid ollama URL %q: scheme and host are required", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the normalized base URL
func (s *Service) BaseURL() string {
	return s.baseURL
}

// CheckHealth probes the base URL. It reports false for any non-200 answer and
// returns an ErrTransport error when the server did not answer at all.
func (s *Service) CheckHealth(ctx context.Context) (bool, error) {
	status, body, err := s.get(ctx, s.baseURL)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(s.Diagnostics, string(body))

	s.logger.Debug("health probe", zap.String("url", s.baseURL), zap.Int("status", status))
	return status == http.StatusOK, nil
}

// ListModels returns the installed models in the order the server lists them
func (s *Service) ListModels(ctx context.Context) ([]models.ModelDescriptor, error) {
	status, body, err := s.get(ctx, s.baseURL+"/api/tags")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Ollama API error (status %d): %s", status, body)
	}

	field := gjson.GetBytes(body, "models")
	if !field.Exists() {
		return nil, fmt.Errorf("/api/tags: %w: models", ErrMissingField)
	}

	var descriptors []models.ModelDescriptor
	if err := json.Unmarshal([]byte(field.Raw), &descriptors); err != nil {
		return nil, fmt.Errorf("failed to parse model list: %w", err)
	}

	s.logger.Debug("listed models", zap.Int("count", len(descriptors)))
	return descriptors, nil
}

// ModelExists reports whether name is installed. The match is exact and case-sensitive.
func (s *Service) ModelExists(ctx context.Context, name string) (bool, error) {
	descriptors, err := s.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range descriptors {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// PrintModelList writes the installed models as a fixed-width table
func (s *Service) PrintModelList(ctx context.Context, w io.Writer) error {
	descriptors, err := s.ListModels(ctx)
	if err != nil {
		return err
	}

	header := color.New(color.Bold)
	header.Fprintf(w, "%-10s %-20s %-10s\n", "모델명", "수정일자", "모델사이즈")
	for _, d := range descriptors {
		fmt.Fprintf(w, "%-10s %-20s %-10d\n", d.Name, d.ModifiedAt, d.Size)
	}
	return nil
}

// get performs a GET and returns the status code and the full body
func (s *Service) get(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %v", ErrTransport, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
