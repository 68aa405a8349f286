// Package markdown extracts link destinations from markdown source.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Extractor parses markdown with goldmark and walks the AST for link
// destinations. Parsing never fails on malformed input; constructs that
// do not form a recognizable link simply contribute nothing.
type Extractor struct {
	md goldmark.Markdown
}

// NewExtractor builds an Extractor with the default CommonMark parser.
func NewExtractor() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// ExtractLinks returns every href in src in order of first appearance.
// Inline links, reference links, autolinks, and image destinations are
// all recognized. Duplicate hrefs are kept; each occurrence is verified
// independently.
func (e *Extractor) ExtractLinks(src []byte) []string {
	doc := e.md.Parser().Parse(text.NewReader(src))

	var hrefs []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			hrefs = append(hrefs, string(node.Destination))
		case *ast.AutoLink:
			hrefs = append(hrefs, string(node.URL(src)))
		case *ast.Image:
			hrefs = append(hrefs, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	return hrefs
}
