package api

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTable is returned when a page has no data table
var ErrNoTable = errors.New("no wikitable found")

// NodeText concatenates every text node under n depth-first, with line
// breaks stripped
func NodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return stripLineBreaks(sb.String())
}

func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(s)
}

// hasClass reports whether an element carries the given CSS class
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// findFirst returns the first element in document order matching pred
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// FirstTable returns the first <table class="wikitable"> in the document
func FirstTable(doc *html.Node) (*html.Node, error) {
	table := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "table" && hasClass(n, "wikitable")
	})
	if table == nil {
		return nil, ErrNoTable
	}
	return table, nil
}

// elementChildren returns the direct element children of n with the given tag
// names; no names means any element
func elementChildren(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if len(tags) == 0 {
			out = append(out, c)
			continue
		}
		for _, t := range tags {
			if c.Data == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// TableRows returns the <tr> elements directly under the table's <tbody>
// sections. The HTML parser inserts a tbody when the markup omits it.
func TableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for _, body := range elementChildren(table, "tbody") {
		rows = append(rows, elementChildren(body, "tr")...)
	}
	return rows
}

// RowCells returns the text of each td/th cell of a row
func RowCells(row *html.Node) []string {
	cells := elementChildren(row, "td", "th")
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = NodeText(cell)
	}
	return out
}
