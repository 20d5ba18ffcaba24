package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/company"
)

const (
	defaultURL   = "http://localhost:11434"
	defaultModel = "llama3.1"
	generatePath = "/api/generate"
	contentType  = "application/json"
	serviceName  = "ollama"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Client talks to the Ollama generate endpoint.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	URL        string
	model      string
}

// New creates a client for the Ollama server at baseURL.
// The http client has no timeout of its own; callers bound the call through ctx.
func New(logger *zap.Logger, baseURL, model string) *Client {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = defaultURL
	}
	// OLLAMA_HOST is commonly given as host:port.
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger:     logger,
		HTTPClient: &http.Client{},
		URL:        baseURL,
		model:      model,
	}
}

// Complete sends a non-streaming generate request and returns the response field.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt must not be empty")
	}

	payload, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "*/*")

	c.logger.Debug("make request", zap.String("url", req.URL.String()), zap.Int("prompt_bytes", len(payload)))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &company.UpstreamError{Kind: company.ErrBackendUnavailable, Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &company.UpstreamError{Kind: company.ErrBackendUnavailable, Service: serviceName, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &company.UpstreamError{
			Kind:       company.ErrBackendUnavailable,
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &company.UpstreamError{
			Kind:       company.ErrBackendUnavailable,
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode generate response: %w", err),
		}
	}

	return out.Response, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
