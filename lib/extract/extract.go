package extract

import (
	"check24-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Field is an ordered list of selectors for one value, the first selector
// that matches anything decides the value.
type Field struct {
	Name      string
	Selectors []string
}

func (f Field) From(sel *goquery.Selection) string {
	return First(sel, f.Selectors...)
}

// First returns the cleaned text of the first node matched by the first
// selector that matches, or "" when none do.
func First(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		found := sel.Find(s)
		if found.Length() == 0 {
			continue
		}
		return htmlutil.CleanText(found)
	}
	return ""
}

// Positional maps the n-th node matched by selector to the n-th output slot.
// Slots without a matching node stay "" and nodes past the last slot are
// ignored.
func Positional(sel *goquery.Selection, selector string, slots int) []string {
	out := make([]string, slots)
	sel.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= slots {
			return false
		}
		out[i] = htmlutil.CleanText(s)
		return true
	})
	return out
}

// Fragment runs a field against a snippet of markup.
func Fragment(fragment string, field Field) string {
	if fragment == "" {
		return ""
	}
	doc, err := htmlutil.ParseFragment(fragment)
	if err != nil {
		return ""
	}
	return field.From(doc.Selection)
}
