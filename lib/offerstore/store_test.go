package offerstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"check24-backend/lib/crawl"
	"check24-backend/lib/offers"
	"check24-backend/lib/testutil"
	"check24-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, func()) {
	res, cleanup := testutil.SetupStore(t, testutil.StoreParams{
		Name:     "offerstore",
		DbSchema: Schema,
	})
	return NewStore(res.DB), cleanup
}

func asakaOffers(rate string) []offers.CreditOffer {
	return []offers.CreditOffer{
		{
			Title:        "Автокредит",
			CreditType:   offers.Auto,
			InterestRate: rate,
			CreditPeriod: "до 60 месяцев",
			MaxSum:       "до 500 000 000 сум",
			Source:       "asaka",
			SourceID:     "4",
		},
		{
			Title:          "Ипотека",
			CreditType:     offers.Mortgage,
			InterestRate:   "18%",
			CreditPeriod:   "до 20 лет",
			MaxSum:         "до 1 000 000 000 сум",
			EarlyRepayment: true,
			Source:         "asaka",
			SourceID:       "7",
		},
	}
}

func TestStore(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		res, err := store.Pull(ctx, PullRequest{})
		require.NoError(t, err)
		require.Len(t, res, 0)
	}

	morning := time.Date(2024, time.August, 26, 9, 0, 0, 0, timezone.Location)

	{
		err := store.Push(ctx, PushRequest{
			Time: morning,
			Results: []crawl.Result{
				{Source: "asaka", Offers: asakaOffers("22%")},
				{
					Source: "asia_alliance",
					Offers: []offers.CreditOffer{
						{
							Title:        "Микрокредит",
							CreditType:   offers.Micro,
							InterestRate: "30%",
							CreditPeriod: "24 месяца",
							MaxSum:       "50 000 000 сум",
							Source:       "asia_alliance",
						},
					},
				},
			},
		})
		require.NoError(t, err)

		res, err := store.Pull(ctx, PullRequest{})
		require.NoError(t, err)
		require.Len(t, res, 2)
		require.Equal(t, "asaka", res[0].Source)
		require.Equal(t, asakaOffers("22%"), res[0].Offers)
		require.True(t, morning.Equal(res[0].Time))
		require.Equal(t, "asia_alliance", res[1].Source)
		require.Len(t, res[1].Offers, 1)
		require.Equal(t, offers.Micro, res[1].Offers[0].CreditType)
	}

	// a second crawl on the same day replaces the first, a failed source
	// keeps its previous snapshot
	evening := morning.Add(10 * time.Hour)
	{
		err := store.Push(ctx, PushRequest{
			Time: evening,
			Results: []crawl.Result{
				{Source: "asaka", Offers: asakaOffers("21%")},
				{Source: "asia_alliance", Err: errors.New("unexpected status 503")},
			},
		})
		require.NoError(t, err)

		res, err := store.Pull(ctx, PullRequest{Source: "asaka"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Equal(t, asakaOffers("21%"), res[0].Offers)
		require.True(t, evening.Equal(res[0].Time))

		res, err = store.Pull(ctx, PullRequest{Source: "asia_alliance"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.True(t, morning.Equal(res[0].Time))
	}

	var crawls int
	err := store.db.QueryRowContext(ctx, "select count(*) from crawl where source = 'asaka'").Scan(&crawls)
	require.NoError(t, err)
	require.Equal(t, 1, crawls)

	// the next day adds a new snapshot instead of replacing
	tomorrow := morning.AddDate(0, 0, 1)
	{
		err := store.Push(ctx, PushRequest{
			Time:    tomorrow,
			Results: []crawl.Result{{Source: "asaka", Offers: asakaOffers("20%")[:1]}},
		})
		require.NoError(t, err)

		res, err := store.Pull(ctx, PullRequest{Source: "asaka"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Len(t, res[0].Offers, 1)
		require.Equal(t, "20%", res[0].Offers[0].InterestRate)

		err = store.db.QueryRowContext(ctx, "select count(*) from crawl where source = 'asaka'").Scan(&crawls)
		require.NoError(t, err)
		require.Equal(t, 2, crawls)
	}

	{
		mortgage := offers.Mortgage
		res, err := store.Pull(ctx, PullRequest{Type: &mortgage})
		require.NoError(t, err)
		require.Len(t, res, 2)
		require.Empty(t, res[0].Offers)
		require.Empty(t, res[1].Offers)

		micro := offers.Micro
		res, err = store.Pull(ctx, PullRequest{Type: &micro})
		require.NoError(t, err)
		require.Len(t, res[1].Offers, 1)
		require.Equal(t, "Микрокредит", res[1].Offers[0].Title)
	}

	{
		res, err := store.Sources(ctx)
		require.NoError(t, err)
		require.Len(t, res, 2)
		require.Equal(t, "asaka", res[0].Source)
		require.Equal(t, 1, res[0].Offers)
		require.True(t, tomorrow.Equal(res[0].LastCrawl))
		require.Equal(t, "asia_alliance", res[1].Source)
		require.Equal(t, 1, res[1].Offers)
	}
}

func TestPushEmptySnapshot(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	err := store.Push(ctx, PushRequest{
		Time:    timezone.Now(),
		Results: []crawl.Result{{Source: "asaka"}},
	})
	require.NoError(t, err)

	res, err := store.Pull(ctx, PullRequest{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Empty(t, res[0].Offers)

	info, err := store.Sources(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, info[0].Offers)
}
