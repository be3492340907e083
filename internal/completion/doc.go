// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion talks to the text-generation backend that answers chat
// messages.
//
// Every backend implements Client and reports failures as one of two kinds:
// ErrRateLimited (the caller keeps the user message and shows a banner) or
// ErrRequestFailed (the caller appends an apology).
//
// # Key Types
//
//   - Client: Complete(ctx, turns) returns one reply for the whole history
//   - Simulator: offline keyword-matched replies with a random delay
//   - GeminiClient: generateContent over HTTP
//   - OpenAIClient: any OpenAI-compatible chat completion endpoint
//
// # Usage
//
//	client, err := completion.New(cfg.Completion, logger)
//	if err != nil {
//	    return err
//	}
//	reply, err := client.Complete(ctx, completion.TurnsFromMessages(conv.Messages))
//	switch {
//	case completion.IsRateLimited(err):
//	    // show banner
//	case err != nil:
//	    // append apology
//	}
package completion
