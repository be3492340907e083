// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// =============================================================================
// SEGMENTS
// =============================================================================

// SegmentKind distinguishes prose from fenced code.
type SegmentKind int

const (
	// SegmentProse is markdown text outside code fences.
	SegmentProse SegmentKind = iota
	// SegmentCode is the body of a ``` fence.
	SegmentCode
)

// String returns the kind name.
func (k SegmentKind) String() string {
	if k == SegmentCode {
		return "code"
	}
	return "prose"
}

// Segment is a run of markdown of one kind. Language is only set for code
// fences that name one.
type Segment struct {
	Kind     SegmentKind
	Text     string
	Language string
}

// IsCode reports whether the segment is a fenced code block.
func (s Segment) IsCode() bool {
	return s.Kind == SegmentCode
}

// SplitSegments splits markdown into prose and fenced code segments. Fences
// open and close on lines starting with ```. An unclosed fence runs to the
// end of the text. Blank prose between fences is dropped.
func SplitSegments(text string) []Segment {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var segments []Segment
	var buf []string
	var language string
	inCode := false

	flushProse := func() {
		prose := strings.Trim(strings.Join(buf, "\n"), "\n")
		if strings.TrimSpace(prose) != "" {
			segments = append(segments, Segment{Kind: SegmentProse, Text: prose})
		}
		buf = nil
	}
	flushCode := func() {
		segments = append(segments, Segment{
			Kind:     SegmentCode,
			Text:     strings.Join(buf, "\n"),
			Language: language,
		})
		buf = nil
		language = ""
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flushCode()
				inCode = false
			} else {
				flushProse()
				language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				inCode = true
			}
			continue
		}
		buf = append(buf, line)
	}

	if inCode {
		flushCode()
	} else {
		flushProse()
	}
	return segments
}
