package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"check24-backend/lib/offers"
	"check24-backend/lib/sources"
	"check24-backend/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = telemetry.Tracer("check24.lib.crawl")
	meter  = telemetry.Meter("check24.lib.crawl")
)

var (
	offerCounter, _      = meter.Int64Counter("crawl.offers")
	failureCounter, _    = meter.Int64Counter("crawl.failures")
	durationHistogram, _ = meter.Float64Histogram("crawl.duration", metric.WithUnit("s"))
)

type Result struct {
	Source   string
	Offers   []offers.CreditOffer
	Err      error
	Started  time.Time
	Duration time.Duration
}

func (r Result) Ok() bool {
	return r.Err == nil
}

// Run fetches every source concurrently and returns one result per source
// in the order they were given. A failing source never affects the others.
func Run(ctx context.Context, srcs ...sources.Source) []Result {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	results := make([]Result, len(srcs))
	wg := sync.WaitGroup{}
	for i, src := range srcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runOne(ctx, src)
		}()
	}
	wg.Wait()

	return results
}

func runOne(ctx context.Context, src sources.Source) Result {
	name := src.Name()
	attrs := metric.WithAttributes(attribute.String("source", name))

	started := time.Now()
	fetched, err := src.FetchOffers(ctx)
	result := Result{
		Source:   name,
		Offers:   fetched,
		Err:      err,
		Started:  started,
		Duration: time.Since(started),
	}
	durationHistogram.Record(ctx, result.Duration.Seconds(), attrs)

	if err != nil {
		result.Offers = nil
		failureCounter.Add(ctx, 1, attrs)
		slog.ErrorContext(ctx, "source failed", "source", name, "err", err)
		return result
	}

	offerCounter.Add(ctx, int64(len(fetched)), attrs)
	slog.InfoContext(
		ctx, "source crawled",
		"source", name,
		"offers", len(fetched),
		"seconds", result.Duration.Seconds(),
	)
	return result
}

// Offers flattens the offers of every successful result, keeping source
// order then listing order.
func Offers(results []Result) []offers.CreditOffer {
	var out []offers.CreditOffer
	for _, r := range results {
		if r.Ok() {
			out = append(out, r.Offers...)
		}
	}
	return out
}

func Failures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Ok() {
			out = append(out, r)
		}
	}
	return out
}
