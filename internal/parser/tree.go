package parser

import (
	"bytes"
	"errors"
	"io"

	"golang.org/x/net/html"
)

// voidElements never take children, so they are not pushed on the open stack.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

// buildTree turns markup into a node tree exactly as written. Unlike the
// HTML5 tree builder it never moves or drops elements, so bare <th>/<td>
// fragments and table parts outside a <table> survive. An end tag closes the
// nearest open element of the same name; stray end tags are ignored.
func buildTree(data []byte) (*html.Node, error) {
	root := &html.Node{Type: html.DocumentNode}
	open := []*html.Node{root}
	z := html.NewTokenizer(bytes.NewReader(data))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return root, nil
		}
		tok := z.Token()
		parent := open[len(open)-1]

		switch tt {
		case html.TextToken:
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Data})
		case html.CommentToken:
			parent.AppendChild(&html.Node{Type: html.CommentNode, Data: tok.Data})
		case html.DoctypeToken:
			root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: tok.Data})
		case html.StartTagToken, html.SelfClosingTagToken:
			n := &html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom, Attr: tok.Attr}
			parent.AppendChild(n)
			if _, void := voidElements[tok.Data]; !void && tt == html.StartTagToken {
				open = append(open, n)
			}
		case html.EndTagToken:
			for i := len(open) - 1; i > 0; i-- {
				if open[i].Data == tok.Data {
					open = open[:i]
					break
				}
			}
		}
	}
}
