// Package markdown cleans and renders the text returned by the summarize routes.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var headingPrefix = regexp.MustCompile(`(?m)^#+\s*`)

// Clean strips bold markers, "###" runs and leading heading hashes, then
// trims surrounding whitespace. Stripping is repeated until the text is
// stable because one removal can expose another (a trimmed "  # x" starts
// with a hash only after the first pass), which keeps Clean idempotent.
func Clean(content string) string {
	for {
		next := cleanOnce(content)
		if next == content {
			return next
		}
		content = next
	}
}

func cleanOnce(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "###", "")
	s = headingPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML renders text as HTML. Raw HTML in the input is escaped.
func ToHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}
