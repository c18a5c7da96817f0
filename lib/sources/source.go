package sources

import (
	"context"
	"time"

	"check24-backend/lib/classifier"
	"check24-backend/lib/offers"
	"check24-backend/lib/restyutil"
)

// Source fetches the current credit offers of one institution. Calls are
// independent of each other and safe to run concurrently with other sources.
type Source interface {
	Name() string
	FetchOffers(ctx context.Context) ([]offers.CreditOffer, error)
}

type Options struct {
	// BaseURL overrides the production endpoint, mostly for mock servers.
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport to pass basic bot checks.
	CloudflareBypass bool
	// Concurrency bounds the per-item detail requests in flight, sources
	// without detail requests ignore it.
	Concurrency int

	Classifier       offers.Classifier
	InstrumentOutput restyutil.InstrumentOutput
}

const (
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// WithDefaults fills every unset option, defaultBaseURL is the production
// endpoint of the source.
func (o Options) WithDefaults(defaultBaseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Classifier == nil {
		o.Classifier = classifier.Default
	}
	return o
}

func (o Options) Normalizer(source string) offers.Normalizer {
	return offers.Normalizer{Source: source, Classifier: o.Classifier}
}
