package offerstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"check24-backend/lib/crawl"
	"check24-backend/lib/offers"
	"check24-backend/lib/telemetry"
	"check24-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

var tracer = telemetry.Tracer("check24.lib.offerstore")

// Store keeps one snapshot of offers per source per day.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type PushRequest struct {
	Time    time.Time
	Results []crawl.Result
}

// Push saves the offers of every successful result, replacing a snapshot
// of the same source taken earlier that day. Failed results are skipped so
// a broken crawl never erases the last good snapshot.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	ctx, span := tracer.Start(ctx, "Push")
	defer span.End()

	err := s.push(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to push snapshot")
	}
	return err
}

func (s Store) push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	startOfDay, startOfTomorrow := timezone.StartOfDay(req.Time)

	for _, result := range req.Results {
		if !result.Ok() {
			continue
		}

		_, err = tx.ExecContext(
			ctx,
			`delete from offer where crawl_id in (
				select id from crawl where source = ? and time >= ? and time < ?
			)`,
			result.Source, startOfDay.Unix(), startOfTomorrow.Unix(),
		)
		if err != nil {
			return fmt.Errorf("delete offers of %s: %w", result.Source, err)
		}
		_, err = tx.ExecContext(
			ctx,
			`delete from crawl where source = ? and time >= ? and time < ?`,
			result.Source, startOfDay.Unix(), startOfTomorrow.Unix(),
		)
		if err != nil {
			return fmt.Errorf("delete crawls of %s: %w", result.Source, err)
		}

		res, err := tx.ExecContext(
			ctx,
			`insert into crawl (source, time) values (?, ?)`,
			result.Source, req.Time.Unix(),
		)
		if err != nil {
			return fmt.Errorf("insert crawl of %s: %w", result.Source, err)
		}
		crawlId, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for i, o := range result.Offers {
			_, err = tx.ExecContext(
				ctx,
				`insert into offer (
					crawl_id, position, title, credit_type, interest_rate,
					credit_period, max_sum, currency, grace_period,
					early_repayment, source_id
				) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				crawlId, i, o.Title, o.CreditType.String(), o.InterestRate,
				o.CreditPeriod, o.MaxSum, o.Currency, o.GracePeriod,
				o.EarlyRepayment, o.SourceID,
			)
			if err != nil {
				return fmt.Errorf("insert offer %d of %s: %w", i, result.Source, err)
			}
		}
	}

	return tx.Commit()
}

type PullRequest struct {
	// Source limits the snapshot to one source, empty means all.
	Source string
	// Type limits offers to one credit type, nil means all.
	Type *offers.CreditType
}

type Snapshot struct {
	Source string
	Time   time.Time
	Offers []offers.CreditOffer
}

// Pull returns the latest snapshot of every source ordered by source name,
// offers within a snapshot keep their listing order.
func (s Store) Pull(ctx context.Context, req PullRequest) ([]Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Pull")
	defer span.End()
	span.SetAttributes(attribute.String("source", req.Source))

	rows, err := s.db.QueryContext(
		ctx,
		`select c.id, c.source, c.time from crawl c
		where (? = '' or c.source = ?)
			and c.id = (
				select id from crawl latest
				where latest.source = c.source
				order by latest.time desc, latest.id desc
				limit 1
			)
		order by c.source`,
		req.Source, req.Source,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query crawls")
		return nil, err
	}

	type crawlRow struct {
		id     int64
		source string
		time   int64
	}
	var crawls []crawlRow
	for rows.Next() {
		var r crawlRow
		err = rows.Scan(&r.id, &r.source, &r.time)
		if err != nil {
			rows.Close()
			return nil, err
		}
		crawls = append(crawls, r)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(crawls))
	for _, c := range crawls {
		snapshotOffers, err := s.offersOf(ctx, c.id, c.source, req.Type)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to query offers")
			return nil, err
		}
		snapshots = append(snapshots, Snapshot{
			Source: c.source,
			Time:   time.Unix(c.time, 0).In(timezone.Location),
			Offers: snapshotOffers,
		})
	}
	return snapshots, nil
}

func (s Store) offersOf(ctx context.Context, crawlId int64, source string, creditType *offers.CreditType) ([]offers.CreditOffer, error) {
	typeFilter := ""
	if creditType != nil {
		typeFilter = creditType.String()
	}

	rows, err := s.db.QueryContext(
		ctx,
		`select title, credit_type, interest_rate, credit_period, max_sum,
			currency, grace_period, early_repayment, source_id
		from offer
		where crawl_id = ? and (? = '' or credit_type = ?)
		order by position`,
		crawlId, typeFilter, typeFilter,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []offers.CreditOffer
	for rows.Next() {
		var o offers.CreditOffer
		var creditTypeName string
		err = rows.Scan(
			&o.Title, &creditTypeName, &o.InterestRate, &o.CreditPeriod, &o.MaxSum,
			&o.Currency, &o.GracePeriod, &o.EarlyRepayment, &o.SourceID,
		)
		if err != nil {
			return nil, err
		}
		o.CreditType, err = offers.ParseCreditType(creditTypeName)
		if err != nil {
			return nil, err
		}
		o.Source = source
		out = append(out, o)
	}
	return out, rows.Err()
}

type SourceInfo struct {
	Source    string
	LastCrawl time.Time
	Offers    int
}

// Sources lists every source that has a stored snapshot.
func (s Store) Sources(ctx context.Context) ([]SourceInfo, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select c.source, c.time, (select count(*) from offer where crawl_id = c.id)
		from crawl c
		where c.id = (
			select id from crawl latest
			where latest.source = c.source
			order by latest.time desc, latest.id desc
			limit 1
		)
		order by c.source`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceInfo
	for rows.Next() {
		var info SourceInfo
		var unix int64
		err = rows.Scan(&info.Source, &unix, &info.Offers)
		if err != nil {
			return nil, err
		}
		info.LastCrawl = time.Unix(unix, 0).In(timezone.Location)
		out = append(out, info)
	}
	return out, rows.Err()
}
