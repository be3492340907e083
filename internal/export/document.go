// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the structured form written by the JSON and YAML exporters.
type Document struct {
	ID         string          `json:"id" yaml:"id"`
	Title      string          `json:"title" yaml:"title"`
	CreatedAt  *time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Generator  string          `json:"generator" yaml:"generator"`
	Messages   []model.Message `json:"messages" yaml:"messages"`
}

func newDocument(conv *model.Conversation, now time.Time) Document {
	doc := Document{
		ID:         conv.ID,
		Title:      conv.GetTitle(),
		ExportedAt: now.UTC(),
		Generator:  Generator,
		Messages:   append([]model.Message(nil), conv.Messages...),
	}
	if created := conv.CreatedAt(); !created.IsZero() {
		created = created.UTC()
		doc.CreatedAt = &created
	}
	return doc
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to JSON format. The output always holds
// the complete message list.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a conversation to JSON format.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	return json.MarshalIndent(newDocument(conv, e.options.now()), "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter exports conversations to YAML format.
type YAMLExporter struct {
	options *Options
}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter(opts *Options) *YAMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &YAMLExporter{options: opts}
}

// Export converts a conversation to YAML format.
func (e *YAMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	return yaml.Marshal(newDocument(conv, e.options.now()))
}

// FileExtension returns the file extension for YAML.
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns the MIME type for YAML.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
