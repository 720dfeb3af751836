package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text of every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var nbspReplacer = strings.NewReplacer("\u00a0", " ")

// Text returns the text of the first node in the selection with
// non-breaking spaces turned into regular ones. Nothing is trimmed.
func Text(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return nbspReplacer.Replace(GetText(sel.Nodes[0]))
}
