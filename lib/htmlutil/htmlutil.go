package htmlutil

import (
	"strings"

	"check24-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TextFragments returns the data of every text node below node in document
// order, whitespace-only fragments included.
func TextFragments(node *html.Node) []string {
	var out []string
	collectText(node, &out)
	return out
}

func collectText(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		*out = append(*out, node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		collectText(child, out)
		child = child.NextSibling
	}
}

func SelectionFragments(sel *goquery.Selection) []string {
	var out []string
	for _, n := range sel.Nodes {
		collectText(n, &out)
	}
	return out
}

// CleanText is the cleaned text of the first node in sel.
func CleanText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return textutil.Clean(SelectionFragments(sel.First()))
}

// ParseFragment parses a snippet of markup, the kind of value JSON APIs embed
// in string fields.
func ParseFragment(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}

// CleanFragment is the cleaned text of the whole fragment, which also works
// for values that contain no markup at all.
func CleanFragment(fragment string) string {
	doc, err := ParseFragment(fragment)
	if err != nil {
		return textutil.Clean([]string{fragment})
	}
	return textutil.Clean(SelectionFragments(doc.Find("body")))
}
