package asiaalliance

import (
	"context"
	"fmt"

	"check24-backend/lib/extract"
	"check24-backend/lib/offers"
	"check24-backend/lib/sources"
	"check24-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	Name           = "asia_alliance"
	DefaultBaseURL = "https://aab.uz"

	listingPath = "/ru/private/crediting/"
)

var tracer = telemetry.Tracer("check24.lib.sources.asiaalliance")

const (
	offerSelector  = ".element--crediting"
	titleSelector  = ".element__title"
	paramsSelector = ".element__params .element__param"
)

// the params block has no labels, values are told apart only by their
// position: rate, term, sum. Any reordering on the site silently shifts
// fields.
const (
	paramRate = iota
	paramTerm
	paramSum
	paramCount
)

// Source scrapes the Asia Alliance Bank crediting page.
type Source struct {
	client     *sources.Client
	normalizer offers.Normalizer
}

func New(opts sources.Options) Source {
	opts = opts.WithDefaults(DefaultBaseURL)
	return Source{
		client:     sources.NewClient(Name, opts),
		normalizer: opts.Normalizer(Name),
	}
}

func (s Source) Name() string {
	return Name
}

func (s Source) FetchOffers(ctx context.Context) ([]offers.CreditOffer, error) {
	ctx, span := tracer.Start(ctx, "FetchOffers")
	defer span.End()

	doc, err := s.client.GetDocument(ctx, listingPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing")
		return nil, err
	}

	result, err := s.parseListing(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse listing")
		return nil, err
	}
	span.SetAttributes(attribute.Int("offers", len(result)))
	return result, nil
}

func (s Source) parseListing(doc *goquery.Document) ([]offers.CreditOffer, error) {
	nodes := doc.Find(offerSelector)
	result := make([]offers.CreditOffer, 0, nodes.Length())

	var err error
	nodes.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		params := extract.Positional(sel, paramsSelector, paramCount)

		var offer offers.CreditOffer
		offer, err = s.normalizer.Normalize(offers.Raw{
			Title:        extract.First(sel, titleSelector),
			InterestRate: params[paramRate],
			CreditPeriod: params[paramTerm],
			MaxSum:       params[paramSum],
		})
		if err != nil {
			err = sources.NewError(Name, sources.ErrMissingField, fmt.Errorf("offer %d: %w", i, err))
			return false
		}
		result = append(result, offer)
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
