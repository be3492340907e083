// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIOptions configures an OpenAIClient.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string // any OpenAI-compatible endpoint
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// OpenAIClient answers through an OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
	hasKey  bool
}

// NewOpenAIClient creates a client from opts.
func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	config := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if opts.BaseURL != "" {
		config.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}

	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
		logger:  opts.Logger.With().Str("backend", "openai").Logger(),
		hasKey:  strings.TrimSpace(opts.APIKey) != "",
	}
}

// Model returns the configured model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends the history as a chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, turns []Turn) (string, error) {
	if !c.hasKey {
		return "", errors.Wrap(ErrRequestFailed, ErrNotConfigured.Error())
	}
	if len(turns) == 0 {
		return "", errors.Wrap(ErrRequestFailed, ErrNoUserTurn.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		c.logger.Debug().Err(err).Dur("duration", time.Since(start)).Msg("chat completion failed")
		return "", classifyOpenAIError(err)
	}

	c.logger.Debug().
		Dur("duration", time.Since(start)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("chat completion")

	if len(resp.Choices) == 0 {
		return "", errors.Wrap(ErrRequestFailed, "response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps go-openai errors onto the package failure kinds.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return errors.Wrap(ErrRateLimited, apiErr.Message)
		}
		return errors.Wrapf(ErrRequestFailed, "status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return errors.Wrap(ErrRateLimited, reqErr.Error())
		}
		return errors.Wrapf(ErrRequestFailed, "status %d: %v", reqErr.HTTPStatusCode, reqErr.Err)
	}

	return classify(err)
}
