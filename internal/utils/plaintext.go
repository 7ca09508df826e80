package utils

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// stripPolicy removes every HTML element, keeping only text content.
// bluemonday policies are safe for concurrent use.
var stripPolicy = bluemonday.StrictPolicy()

var blankLines = regexp.MustCompile(`\n{3,}`)

// PlainText reduces a document body to markup-free text. HTML tags are
// stripped first, then Markdown syntax; paragraph breaks survive as blank lines.
func PlainText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	// StrictPolicy escapes entities in what it keeps.
	stripped := html.UnescapeString(stripPolicy.Sanitize(body))
	return markdownText([]byte(stripped))
}

// markdownText walks the goldmark AST collecting text nodes.
func markdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument && n.Kind() != ast.KindList {
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Value(src))
			switch {
			case node.HardLineBreak():
				buf.WriteByte('\n')
			case node.SoftLineBreak():
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	out := blankLines.ReplaceAllString(buf.String(), "\n\n")
	return strings.TrimSpace(out)
}
