package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeContent strips all HTML from user-submitted titles and bodies at
// ingestion. Markdown syntax passes through untouched; rendering happens in
// the excluded presentation layer.
func SanitizeContent(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// Excerpt derives a plain-text preview of at most maxRunes runes from stored
// markdown, used for notification messages. It walks the parsed AST and
// collects text nodes rather than rendering HTML.
func Excerpt(content string, maxRunes int) string {
	source := []byte(content)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Block boundaries become word boundaries.
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(plain)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return plain
}
