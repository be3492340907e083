// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation to a file for sharing or archiving.
//
// # Key Types
//
//   - Exporter: converts a conversation into bytes of one format
//   - Options: output directory, theme, metadata and open-after-export
//   - Document: the structured form used by JSON and YAML
//
// # Supported Formats
//
//   - md: Markdown with YAML front matter
//   - html: standalone page, goldmark prose and chroma code blocks
//   - json: Document as indented JSON
//   - yaml: Document as YAML
//
// # Usage
//
//	opts := export.DefaultOptions()
//	opts.OutputDir = dataDir
//	path, err := export.Export(conv, "html", opts)
package export
