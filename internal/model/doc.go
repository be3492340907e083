// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: titled, ordered message log with a UUIDv7 identifier
//   - Message: a single turn tagged with its Sender
//   - Sender: user or ai
//
// # Title Rules
//
// A new conversation is titled "New Chat". When the AI reply that completes
// the first exchange is added, the title becomes the first user message,
// cut to 30 runes with "…" appended if it was longer. The title is derived
// once; only ClearHistory starts the cycle again.
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddMessage(model.NewUserMessage("hello"))
//	conv.AddMessage(model.NewAIMessage("Hello there!"))
//	fmt.Println(conv.Title) // "hello"
package model
