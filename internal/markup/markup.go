// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup renders submitted descriptions. Descriptions are treated
// as Markdown, converted to HTML and sanitized so listings can embed the
// result directly.
package markup

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer uses bluemonday's UGCPolicy which allows safe HTML tags
// for user-generated content while stripping dangerous elements like
// <script> and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// textSanitizer strips all markup from plain-text fields.
var textSanitizer = bluemonday.StrictPolicy()

// RenderDescription converts a Markdown description to sanitized HTML.
// Returns an empty string when the input is empty or renders to nothing.
func RenderDescription(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		// Fall back to the sanitized raw text rather than failing the request.
		return htmlSanitizer.Sanitize(md)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// SanitizeText strips all HTML from a plain-text field such as a title
// or location.
func SanitizeText(s string) string {
	return strings.TrimSpace(textSanitizer.Sanitize(s))
}
