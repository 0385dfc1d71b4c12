package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// extractMarkdown parses markdown with goldmark and flattens it to plain
// text. Markdown has no pages, so the H1/H2 section count stands in as
// the unit count (at least 1).
func extractMarkdown(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown file: %w", err)
	}

	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	plain, err := flattenText(doc, source)
	if err != nil {
		return nil, fmt.Errorf("flatten markdown: %w", err)
	}

	return &Result{
		Text:      plain,
		PageCount: countSections(doc, source),
	}, nil
}

// flattenText walks the AST collecting raw text segments, with blank
// lines between block elements.
func flattenText(doc ast.Node, source []byte) (string, error) {
	var sb strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				sb.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteByte('\n')
				}
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					sb.Write(seg.Value(source))
				}
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				sb.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

// countSections counts H1/H2 sections via the table of contents.
func countSections(doc ast.Node, source []byte) int {
	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil || tree == nil {
		return 1
	}

	count := countItems(tree.Items)
	if count == 0 {
		return 1
	}
	return count
}

func countItems(items toc.Items) int {
	total := 0
	for _, item := range items {
		total += 1 + countItems(item.Items)
	}
	return total
}
