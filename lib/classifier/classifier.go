package classifier

import (
	"check24-backend/lib/offers"
	"check24-backend/lib/textutil"
)

type Rule struct {
	Type     offers.CreditType
	Keywords []string
}

// Rules is checked top to bottom and the first rule with a matching keyword
// wins, so reordering it changes how titles with several keywords are
// classified.
var Rules = []Rule{
	{Type: offers.Auto, Keywords: []string{"Автокредит"}},
	{Type: offers.Mortgage, Keywords: []string{"Ипотека"}},
	{Type: offers.Micro, Keywords: []string{"Микрокредит", "Микрозайм"}},
	{Type: offers.Education, Keywords: []string{"Образование", "Образовательный"}},
	{Type: offers.Consumer, Keywords: []string{"Потребительский"}},
	{Type: offers.Overdraft, Keywords: []string{"Расчетный", "Овердрафт"}},
	{Type: offers.CreditCard, Keywords: []string{"Кредитная карта"}},
}

type Classifier struct {
	rules []Rule
}

func New(rules []Rule) Classifier {
	return Classifier{rules: rules}
}

var Default = New(Rules)

// Classify matches keywords case-sensitively against the raw title.
func (c Classifier) Classify(title string) offers.CreditType {
	for _, r := range c.rules {
		if textutil.ContainsAny(title, r.Keywords) {
			return r.Type
		}
	}
	return offers.Other
}

func Classify(title string) offers.CreditType {
	return Default.Classify(title)
}
