package asaka

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"check24-backend/lib/extract"
	"check24-backend/lib/offers"
	"check24-backend/lib/sources"
	"check24-backend/lib/telemetry"
	"check24-backend/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	Name           = "asaka"
	DefaultBaseURL = "https://back.asakabank.uz"

	listingPath = "/1/credit/?category=5&page_size=50"
)

var tracer = telemetry.Tracer("check24.lib.sources.asaka")

func detailPath(id string) string {
	return fmt.Sprintf("/1/credit/%s/property/", id)
}

// the amount is rendered either as a paragraph or as a heading, the heading
// takes precedence when both are present
var (
	maxSumField = extract.Field{Name: "max_amount_ru", Selectors: []string{"h3", "p"}}
	periodField = extract.Field{Name: "credit_period_ru", Selectors: []string{"h1"}}
)

type listing struct {
	Results *[]listingItem `json:"results"`
}

type listingItem struct {
	ID           json.RawMessage `json:"id"`
	Title        text            `json:"title_ru"`
	MaxAmount    text            `json:"max_amount_ru"`
	CreditPeriod text            `json:"credit_period_ru"`
	Currency     text            `json:"currency"`
}

type detail struct {
	Results *[]detailItem `json:"results"`
}

type detailItem struct {
	InterestRate   text `json:"interest_rate"`
	Currency       text `json:"currency"`
	GracePeriod    text `json:"grace_period"`
	EarlyRepayment flag `json:"early_repayment"`
}

// flag tolerates the ways a yes/no attribute shows up in the API, anything
// unrecognized counts as false.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	var v any
	if json.Unmarshal(data, &v) != nil {
		*f = false
		return nil
	}
	switch v := v.(type) {
	case bool:
		*f = flag(v)
	case float64:
		*f = v != 0
	case string:
		parsed, err := strconv.ParseBool(v)
		*f = flag(err == nil && parsed)
	default:
		*f = false
	}
	return nil
}

// text keeps strings and numbers as written, other values are dropped so
// one odd field never fails the whole body.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var v any
	if json.Unmarshal(data, &v) != nil {
		return nil
	}
	switch v := v.(type) {
	case string:
		*t = text(v)
	case float64:
		*t = text(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return nil
}

// itemID accepts both numeric and string ids.
func itemID(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, s != ""
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return n.String(), true
		}
	}
	return "", false
}

// Source reads the Asaka Bank credit API, a JSON listing plus one property
// request per credit for its interest rate.
type Source struct {
	opts       sources.Options
	client     *sources.Client
	normalizer offers.Normalizer
}

func New(opts sources.Options) Source {
	opts = opts.WithDefaults(DefaultBaseURL)
	return Source{
		opts:       opts,
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

	result, err := s.fetchOffers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch offers")
		return nil, err
	}
	span.SetAttributes(attribute.Int("offers", len(result)))
	return result, nil
}

func (s Source) fetchOffers(ctx context.Context) ([]offers.CreditOffer, error) {
	var list listing
	err := s.client.GetJSON(ctx, listingPath, &list)
	if err != nil {
		return nil, err
	}
	if list.Results == nil {
		return nil, sources.NewError(Name, sources.ErrDecode, fmt.Errorf("listing has no \"results\" array"))
	}
	items := *list.Results

	raws := make([]offers.Raw, len(items))
	for i, item := range items {
		id, ok := itemID(item.ID)
		if !ok {
			return nil, sources.MissingField(Name, fmt.Sprintf("results[%d].id", i))
		}
		if textutil.Clean([]string{string(item.Title)}) == "" {
			return nil, sources.MissingField(Name, fmt.Sprintf("results[%d].title_ru", i))
		}
		raws[i] = offers.Raw{
			SourceID:     id,
			Title:        string(item.Title),
			MaxSum:       extract.Fragment(string(item.MaxAmount), maxSumField),
			CreditPeriod: extract.Fragment(string(item.CreditPeriod), periodField),
			Currency:     string(item.Currency),
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Concurrency)
	for i := range raws {
		raw := &raws[i]
		group.Go(func() error {
			return s.fillDetail(groupCtx, raw)
		})
	}
	err = group.Wait()
	if err != nil {
		return nil, err
	}

	result := make([]offers.CreditOffer, len(raws))
	for i, raw := range raws {
		offer, err := s.normalizer.Normalize(raw)
		if err != nil {
			return nil, sources.NewError(Name, sources.ErrMissingField, fmt.Errorf("results[%d]: %w", i, err))
		}
		result[i] = offer
	}
	return result, nil
}

func (s Source) fillDetail(ctx context.Context, raw *offers.Raw) error {
	var d detail
	err := s.client.GetJSON(ctx, detailPath(raw.SourceID), &d)
	if err != nil {
		return err
	}
	if d.Results == nil {
		return sources.NewError(Name, sources.ErrDecode, fmt.Errorf("property of %s has no \"results\" array", raw.SourceID))
	}
	if len(*d.Results) == 0 {
		slog.DebugContext(ctx, "credit has no properties", "source", Name, "id", raw.SourceID)
		return nil
	}

	property := (*d.Results)[0]
	raw.InterestRate = textutil.Clean([]string{string(property.InterestRate)})
	raw.GracePeriod = textutil.Clean([]string{string(property.GracePeriod)})
	raw.EarlyRepayment = bool(property.EarlyRepayment)
	if property.Currency != "" {
		raw.Currency = string(property.Currency)
	}
	return nil
}
