// internal/providers/openai/client.go

// Package openai implements the completion provider against the OpenAI
// Chat Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contextual-pipeline/internal/common/config"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/common/metrics"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client performs Chat Completions requests and decodes JSON-object
// responses.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	maxRetries  int
	logger      logger.Logger
}

func NewClient(cfg config.OpenAIConfig, log logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		http:        &http.Client{Timeout: timeout + 5*time.Second},
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		logger:      log,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt and returns the decoded JSON object from the
// model. Transient failures retry with exponential backoff until the
// context expires or attempts run out.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewCompletionFailedError(fmt.Errorf("openai: api key is empty"))
	}

	req := chatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var lastErr error
	backoff := time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return nil, apperrors.NewProviderTimeoutError("openai")
			}
			c.logger.Warn("Retrying completion request", map[string]interface{}{
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}

		payload, err := c.createChatCompletion(ctx, req)
		if err == nil {
			metrics.ProviderRequests.WithLabelValues("openai", "success").Inc()
			return payload, nil
		}
		lastErr = err
		metrics.ProviderRequests.WithLabelValues("openai", "error").Inc()
		if ctx.Err() != nil {
			return nil, apperrors.NewProviderTimeoutError("openai")
		}
	}
	return nil, apperrors.NewCompletionFailedError(lastErr)
}

func (c *Client) createChatCompletion(ctx context.Context, req chatCompletionRequest) (map[string]interface{}, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("openai: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty choices")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("openai: decode payload: %w", err)
	}
	return payload, nil
}
