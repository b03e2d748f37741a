package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// lineBreaking are the elements after which a rendered browser would start a new line.
var lineBreaking = map[atom.Atom]bool{
	atom.Br:    true,
	atom.Tr:    true,
	atom.P:     true,
	atom.Div:   true,
	atom.Li:    true,
	atom.Table: true,
}

// GetText returns the text of a node the way a browser would render it:
// <br>, rows and block elements become newlines and every run of
// whitespace inside a line is collapsed to one space.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return normalizeLines(buffer.String())
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	}
	if node.Type == html.ElementNode && (node.DataAtom == atom.Script || node.DataAtom == atom.Style) {
		return
	}
	if node.Type == html.ElementNode && node.DataAtom == atom.Br {
		buffer.WriteByte('\n')
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
	if node.Type == html.ElementNode && lineBreaking[node.DataAtom] {
		buffer.WriteByte('\n')
	}
}

// SelectionText is GetText for every node of a selection, joined by newlines.
func SelectionText(sel *goquery.Selection) string {
	parts := make([]string, 0, sel.Length())
	for _, n := range sel.Nodes {
		text := GetText(n)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// OwnText returns only the text nodes that are direct children of the
// selection's first node, nested elements are ignored.
func OwnText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var buffer bytes.Buffer
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			buffer.WriteString(child.Data)
		}
	}
	return strings.TrimSpace(collapseSpaces(buffer.String()))
}

func collapseSpaces(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// normalizeLines collapses whitespace in each line, drops blank lines and
// trims the result.
func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = collapseSpaces(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
