// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gemchat.
//
// # Key Types
//
//   - Config: main configuration structure
//   - CompletionConfig: reply backend selection (simulator, gemini, openai)
//   - Duration: time.Duration encoded as "1.5s" in TOML
//   - Watcher: fsnotify-based hot reload
//
// # Configuration Precedence
//
//   - Environment variables (GEMCHAT_*, GEMINI_API_KEY, OPENAI_API_KEY)
//   - $GEMCHAT_HOME/config.toml (default ~/.gemchat/config.toml)
//   - Built-in defaults
//
// A .env file in the working directory is loaded into the environment by
// the gemchat command before Load runs.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client, err := completion.New(cfg.Completion, logger)
package config
