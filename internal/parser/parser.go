
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"polymer-kinetics-api/internal/normalize"
)

// ErrEmptyBody is returned when the upstream answered with no content at all.
var ErrEmptyBody = errors.New("empty response body")

// ErrNoReference is returned when a coefficient table has no "Reference" link.
var ErrNoReference = errors.New("no reference link in table")

// StructureError reports a table whose header and cell counts differ, which
// means headers can no longer be paired with cells by position.
type StructureError struct {
	Headers int
	Cells   int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("table structure mismatch: %d headers, %d cells", e.Headers, e.Cells)
}

const referenceText = "Reference"

// excludedHeaderIDs are the table-level headers that do not name a field.
var excludedHeaderIDs = map[string]struct{}{
	"main-header":    {},
	"temperature_th": {},
	"kp_th":          {},
}

type Parser struct{}

func New() *Parser { return &Parser{} }

// Table is one coefficient table with headers and cells of equal length.
type Table struct {
	Headers []string
	Cells   []string
}

// Parse decodes body to UTF-8 and builds a document from it without
// restructuring the markup.
func (p *Parser) Parse(body []byte, contentType string) (*goquery.Document, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	data, err := toUTF8(body, contentType)
	if err != nil {
		return nil, err
	}
	root, err := buildTree(data)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

// TextNodes returns the text of every top-level node of an HTML fragment, in
// document order. Whitespace-only nodes between elements are kept.
func (p *Parser) TextNodes(body []byte, contentType string) ([]string, error) {
	if len(body) == 0 {
		return nil, nil
	}
	doc, err := p.Parse(body, contentType)
	if err != nil {
		return nil, err
	}
	var out []string
	for n := doc.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode, html.CommentNode:
			out = append(out, n.Data)
		case html.DoctypeNode:
		default:
			out = append(out, goquery.NewDocumentFromNode(n).Text())
		}
	}
	return out, nil
}

// Options returns the text of every <option>.
func (p *Parser) Options(doc *goquery.Document) []string {
	var out []string
	doc.Find("option").Each(func(i int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

// ReferenceHref returns the href of the first anchor whose text is exactly
// "Reference".
func (p *Parser) ReferenceHref(doc *goquery.Document) (string, error) {
	var (
		href    string
		found   bool
		hasHref bool
	)
	doc.Find("a").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if s.Text() != referenceText {
			return true
		}
		href, hasHref = s.Attr("href")
		found = true
		return false
	})
	if !found {
		return "", ErrNoReference
	}
	if !hasHref {
		return "", fmt.Errorf("%w: anchor has no href", ErrNoReference)
	}
	return href, nil
}

// Cells returns every <td> text with the reference placeholder swapped for
// ref and unit suffixes removed.
func (p *Parser) Cells(doc *goquery.Document, ref string) []string {
	var out []string
	doc.Find("td").Each(func(i int, s *goquery.Selection) {
		text := strings.ReplaceAll(s.Text(), referenceText, ref)
		out = append(out, normalize.StripUnits(text))
	})
	return out
}

// Headers returns every <th> text except the table-level headers. Headers
// without an id are always kept.
func (p *Parser) Headers(doc *goquery.Document) []string {
	var out []string
	doc.Find("th").Each(func(i int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			if _, skip := excludedHeaderIDs[id]; skip {
				return
			}
		}
		out = append(out, s.Text())
	})
	return out
}

// Table extracts the coefficient table of an index.php response.
func (p *Parser) Table(body []byte, contentType string) (Table, error) {
	doc, err := p.Parse(body, contentType)
	if err != nil {
		return Table{}, err
	}
	ref, err := p.ReferenceHref(doc)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Headers: p.Headers(doc),
		Cells:   p.Cells(doc, ref),
	}
	if len(t.Headers) != len(t.Cells) || len(t.Headers) == 0 {
		return Table{}, &StructureError{Headers: len(t.Headers), Cells: len(t.Cells)}
	}
	return t, nil
}

// toUTF8 leaves valid UTF-8 untouched and otherwise decodes using the
// declared or sniffed charset.
func toUTF8(data []byte, contentType string) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	return enc.NewDecoder().Bytes(data)
}
