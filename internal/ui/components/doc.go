// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components draws the pieces of the chat screen.
//
// Components are stateless render functions over render view models and a
// styles.Theme, plus two small stateful helpers: Markdown caches glamour
// renderers per width, and ToastManager holds transient notices.
//
// # Key Types
//
//   - Markdown: glamour prose rendering with a fixed style
//   - RenderCodeBlock: chroma syntax highlighting with line numbers
//   - RenderTranscript: welcome panel or message bubbles
//   - RenderSidebar: conversation history list
//   - RenderBanner: rate-limit banner
//   - ToastManager: auto-dismissing status and error notices
package components
