// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller drives the chat interaction: it validates input, moves
// messages through the conversation store and hands history to the
// completion client.
//
// # Send Cycle
//
// BeginSend appends the user message and returns a Request. The caller runs
// Complete (typically inside a tea.Cmd) and passes the result to Finish,
// which appends the reply, raises the rate-limit banner or appends an
// apology. Send does all three for synchronous callers.
//
// A reply for a conversation the user navigated away from is stored without
// a refresh. A reply for a conversation cleared since the request started is
// dropped.
//
// # Usage
//
//	ctrl := controller.New(store, client, controller.Options{Themes: adapter})
//	out, err := ctrl.Send(ctx, "hello")
package controller
