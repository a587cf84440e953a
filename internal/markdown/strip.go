// Package markdown reduces markdown source to plain text so notes can
// be chunked and scored on their prose rather than their markup.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ToPlainText strips markdown structure from src, keeping the readable
// text including code block contents. Block boundaries become newlines;
// downstream whitespace normalisation collapses them.
func ToPlainText(src string) string {
	source := []byte(src)

	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var sb strings.Builder
	sb.Grow(len(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				sb.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteByte(' ')
				}
			}
		case *ast.FencedCodeBlock:
			if entering {
				writeLines(&sb, source, node)
			}
		case *ast.CodeBlock:
			if entering {
				writeLines(&sb, source, node)
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// writeLines copies a code block's raw lines into the builder.
func writeLines(sb *strings.Builder, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	sb.WriteByte('\n')
}
