// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/gemchat-tui/internal/config"
)

// Backend names accepted by New.
const (
	BackendSimulator = "simulator"
	BackendGemini    = "gemini"
	BackendOpenAI    = "openai"
)

// New builds the client selected by cfg.Backend.
func New(cfg config.CompletionConfig, logger zerolog.Logger) (Client, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendSimulator, "":
		return NewSimulator(SimulatorOptions{
			MinDelay:          cfg.MinDelay.Duration,
			MaxDelay:          cfg.MaxDelay.Duration,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             cfg.Burst,
			Logger:            logger,
		}), nil

	case BackendGemini:
		client := NewGeminiClient(cfg.APIKey).
			WithModel(cfg.Model).
			WithTimeout(cfg.Timeout.Duration).
			WithMaxRetries(cfg.MaxRetries).
			WithLogger(logger)
		if cfg.BaseURL != "" {
			client.WithBaseURL(cfg.BaseURL)
		}
		return client, nil

	case BackendOpenAI:
		return NewOpenAIClient(OpenAIOptions{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout.Duration,
			Logger:  logger,
		}), nil

	default:
		return nil, fmt.Errorf("unknown completion backend %q (want %s, %s or %s)",
			cfg.Backend, BackendSimulator, BackendGemini, BackendOpenAI)
	}
}
