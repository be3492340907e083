// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Configuration constants for the Gemini API.
const (
	// DefaultGeminiURL is the base URL of the Generative Language API.
	DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.0-flash"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is how many times a 5xx response is retried.
	DefaultMaxRetries = 2

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second

	// MaxResponseSize caps the response body.
	// SECURITY: prevents memory exhaustion from a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024
)

// ErrNotConfigured indicates the API key is not set.
var ErrNotConfigured = errors.New("API key not configured")

// =============================================================================
// WIRE TYPES
// =============================================================================

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// StatusError is a non-2xx response from an HTTP backend. It unwraps to
// ErrRateLimited for 429 and to ErrRequestFailed otherwise.
type StatusError struct {
	Status  int
	Message string
}

// Unwrap returns the failure kind.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return ErrRequestFailed
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// =============================================================================
// CLIENT
// =============================================================================

// GeminiClient calls the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewGeminiClient creates a client. An empty key is accepted; Complete then
// fails with ErrNotConfigured.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultGeminiURL,
		model:      DefaultGeminiModel,
		maxRetries: DefaultMaxRetries,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *GeminiClient) WithBaseURL(url string) *GeminiClient {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithModel sets the model name.
func (c *GeminiClient) WithModel(model string) *GeminiClient {
	if model != "" {
		c.model = model
	}
	return c
}

// WithTimeout sets the request timeout.
func (c *GeminiClient) WithTimeout(timeout time.Duration) *GeminiClient {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithMaxRetries sets how often server errors are retried.
func (c *GeminiClient) WithMaxRetries(n int) *GeminiClient {
	if n >= 0 {
		c.maxRetries = n
	}
	return c
}

// WithLogger sets the logger.
func (c *GeminiClient) WithLogger(logger zerolog.Logger) *GeminiClient {
	c.logger = logger.With().Str("backend", "gemini").Logger()
	return c
}

// Model returns the configured model.
func (c *GeminiClient) Model() string {
	return c.model
}

// IsConfigured returns true if an API key is set.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Complete sends the full history and returns the first candidate's text.
// 429 responses are not retried: they surface as ErrRateLimited at once.
func (c *GeminiClient) Complete(ctx context.Context, turns []Turn) (string, error) {
	if !c.IsConfigured() {
		return "", errors.Wrap(ErrRequestFailed, ErrNotConfigured.Error())
	}
	if len(turns) == 0 {
		return "", errors.Wrap(ErrRequestFailed, ErrNoUserTurn.Error())
	}

	reqBody := geminiRequest{Contents: make([]geminiContent, 0, len(turns))}
	for _, t := range turns {
		reqBody.Contents = append(reqBody.Contents, geminiContent{
			Role:  string(t.Role),
			Parts: []geminiPart{{Text: t.Content}},
		})
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", errors.Wrap(ErrRequestFailed, ctx.Err().Error())
			case <-time.After(c.calculateBackoff(attempt)):
			}
		}

		reply, err := c.doRequest(ctx, reqBody)
		if err == nil {
			return reply, nil
		}
		if !c.isRetryable(err) {
			return "", classify(err)
		}
		lastErr = err
		c.logger.Debug().Err(err).Int("attempt", attempt+1).Msg("retrying request")
	}

	return "", errors.Wrapf(ErrRequestFailed, "max retries exceeded: %v", lastErr)
}

func (c *GeminiClient) doRequest(ctx context.Context, reqBody geminiRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("model", c.model).
		Msg("gemini response")

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", handleErrorResponse(resp.StatusCode, body)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("response contained no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts a non-2xx response into a classified error.
func handleErrorResponse(statusCode int, body []byte) error {
	statusErr := &StatusError{Status: statusCode}

	var apiErr geminiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		statusErr.Message = apiErr.Error.Message
	} else {
		statusErr.Message = strings.TrimSpace(string(body))
	}

	return statusErr
}

// isRetryable reports whether err came from a 5xx response.
func (c *GeminiClient) isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= 500 && statusErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay before retry number attempt.
func (c *GeminiClient) calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
