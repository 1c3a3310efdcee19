// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// ExcerptLength is the rune length of generated post excerpts.
const ExcerptLength = 200

// ContentRenderer turns blog markdown into sanitized HTML.
type ContentRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewContentRenderer returns a renderer with GitHub flavored markdown and a
// user generated content sanitizing policy.
func NewContentRenderer() *ContentRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoFollowOnFullyQualifiedLinks(true)

	return &ContentRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
		),
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

// Render converts markdown to HTML and strips anything unsafe.
func (r *ContentRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Excerpt returns the first ExcerptLength runes of the text of rendered
// HTML, cut at a word boundary.
func (r *ContentRenderer) Excerpt(renderedHTML string) string {
	text := html.UnescapeString(r.strict.Sanitize(renderedHTML))
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}

	runes := []rune(text)[:ExcerptLength]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > ExcerptLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
