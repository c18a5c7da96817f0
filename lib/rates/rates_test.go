package rates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		text string
		ok   bool
		min  string
		max  string
	}{
		{text: "24%", ok: true, min: "24", max: "24"},
		{text: "24,5 % годовых", ok: true, min: "24.5", max: "24.5"},
		{text: "от 22% до 28%", ok: true, min: "22", max: "28"},
		{text: "от 22 до 28%", ok: true, min: "22", max: "28"},
		{text: "18 - 21,9%", ok: true, min: "18", max: "21.9"},
		{text: "в сумах 24%, в долларах 12%", ok: true, min: "12", max: "24"},
		{text: "", ok: false},
		{text: "по запросу", ok: false},
		{text: "до 60 месяцев", ok: false},
	}

	for _, test := range cases {
		r, ok := Parse(test.text)
		require.Equal(t, test.ok, ok, "text %q", test.text)
		if !test.ok {
			continue
		}
		require.True(t, decimal.RequireFromString(test.min).Equal(r.Min), "text %q min %s", test.text, r.Min)
		require.True(t, decimal.RequireFromString(test.max).Equal(r.Max), "text %q max %s", test.text, r.Max)
	}
}
