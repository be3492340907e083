// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model of the gemchat screen.

# Layout

	header    app name, conversation title, theme
	banner    rate-limit notice, hidden after a few seconds
	sidebar | transcript viewport
	input     multi-line textarea
	status    toast or status with key hints

# Update Loop (update.go)

Enter hands the input to controller.BeginSend and runs the completion in a
tea.Cmd. The result comes back as ReplyMsg and is applied with
controller.Finish. Only one request is in flight; extra sends are ignored.

The config watcher delivers ConfigReloadedMsg, which swaps the completion
client and applies the UI settings.

# Key Bindings (keys.go)

See DefaultKeyMap. F1 shows the full list.
*/
package chat
