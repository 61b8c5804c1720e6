package export

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hvlab/settlement/internal/ledger"
)

// MemoText flattens an item's memo to plain text: markup is dropped, block
// boundaries become single spaces and embedded images are ignored. An absent
// or undecodable memo yields "".
func MemoText(it *ledger.LineItem) string {
	m, err := it.GetMemo()
	if err != nil || m == nil {
		return ""
	}
	return htmlToText(m.HTML)
}

func htmlToText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "img":
				return
			case "br", "p", "div", "li", "tr":
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}
