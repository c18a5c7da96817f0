package offers

import (
	"errors"
	"fmt"

	"check24-backend/lib/textutil"
)

type CreditType int

const (
	Other CreditType = iota
	Auto
	Mortgage
	Micro
	Education
	Consumer
	Overdraft
	CreditCard
)

var creditTypeNames = map[CreditType]string{
	Other:      "other",
	Auto:       "auto",
	Mortgage:   "mortgage",
	Micro:      "micro",
	Education:  "education",
	Consumer:   "consumer",
	Overdraft:  "overdraft",
	CreditCard: "credit_card",
}

// CreditTypes lists every credit type, Other last.
var CreditTypes = []CreditType{
	Auto, Mortgage, Micro, Education, Consumer, Overdraft, CreditCard, Other,
}

func (t CreditType) String() string {
	name, ok := creditTypeNames[t]
	if !ok {
		return fmt.Sprintf("CreditType(%d)", int(t))
	}
	return name
}

func ParseCreditType(name string) (CreditType, error) {
	for t, n := range creditTypeNames {
		if n == name {
			return t, nil
		}
	}
	return Other, fmt.Errorf("unknown credit type %q", name)
}

func (t CreditType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CreditType) UnmarshalText(text []byte) error {
	parsed, err := ParseCreditType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CreditOffer is the site-independent representation of one credit offer.
// Numeric looking fields are kept as the text the bank renders since sources
// describe ranges and conditions in prose.
type CreditOffer struct {
	Title        string     `json:"title" yaml:"title"`
	CreditType   CreditType `json:"credit_type" yaml:"credit_type"`
	InterestRate string     `json:"interest_rate" yaml:"interest_rate"`
	CreditPeriod string     `json:"credit_period" yaml:"credit_period"`
	MaxSum       string     `json:"max_sum" yaml:"max_sum"`

	Currency       string `json:"currency,omitempty" yaml:"currency,omitempty"`
	GracePeriod    string `json:"grace_period,omitempty" yaml:"grace_period,omitempty"`
	EarlyRepayment bool   `json:"early_repayment,omitempty" yaml:"early_repayment,omitempty"`

	Source   string `json:"source" yaml:"source"`
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`
}

// Raw is the set of fields an adapter managed to extract for one listing
// item, before normalization.
type Raw struct {
	SourceID     string
	Title        string
	InterestRate string
	CreditPeriod string
	MaxSum       string

	Currency       string
	GracePeriod    string
	EarlyRepayment bool
}

var ErrEmptyTitle = errors.New("offer title is empty")

type Classifier interface {
	Classify(title string) CreditType
}

type Normalizer struct {
	Source     string
	Classifier Classifier
}

func (n Normalizer) Normalize(raw Raw) (CreditOffer, error) {
	title := clean(raw.Title)
	if title == "" {
		return CreditOffer{}, ErrEmptyTitle
	}

	creditType := Other
	if n.Classifier != nil {
		creditType = n.Classifier.Classify(title)
	}

	return CreditOffer{
		Title:          title,
		CreditType:     creditType,
		InterestRate:   clean(raw.InterestRate),
		CreditPeriod:   clean(raw.CreditPeriod),
		MaxSum:         clean(raw.MaxSum),
		Currency:       clean(raw.Currency),
		GracePeriod:    clean(raw.GracePeriod),
		EarlyRepayment: raw.EarlyRepayment,
		Source:         n.Source,
		SourceID:       raw.SourceID,
	}, nil
}

func clean(s string) string {
	return textutil.Clean([]string{s})
}
