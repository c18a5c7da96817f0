package rates

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Range is the span of percentages mentioned in a free-text rate, Min equals
// Max when only one value is given.
type Range struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

const number = `(\d+(?:[.,]\d+)?)`

var (
	spanRegex    = regexp.MustCompile(number + `\s*%?\s*(?:-|–|—|до)\s*` + number + `\s*%`)
	percentRegex = regexp.MustCompile(number + `\s*%`)
)

func parseNumber(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Parse extracts the percentages in texts like "24%", "от 22 до 28%" or
// "24,5 % годовых". The second return value is false when the text has no
// percentage in it.
func Parse(text string) (Range, bool) {
	var values []decimal.Decimal
	for _, m := range spanRegex.FindAllStringSubmatch(text, -1) {
		for _, group := range m[1:] {
			if d, ok := parseNumber(group); ok {
				values = append(values, d)
			}
		}
	}
	for _, m := range percentRegex.FindAllStringSubmatch(text, -1) {
		if d, ok := parseNumber(m[1]); ok {
			values = append(values, d)
		}
	}
	if len(values) == 0 {
		return Range{}, false
	}

	return Range{
		Min: decimal.Min(values[0], values[1:]...),
		Max: decimal.Max(values[0], values[1:]...),
	}, true
}
