package commands

import (
	"context"
	"log/slog"
	"time"

	"check24-backend/lib/chrono"
	"check24-backend/lib/crawl"
	"check24-backend/lib/offerstore"
	"check24-backend/lib/telemetry"
	"check24-backend/lib/timezone"

	"github.com/spf13/cobra"
)

var watchNow bool

func init() {
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "Also crawl once right away.")
	rootCmd.AddCommand(watchCmd)
}

func crawlAndSave(ctx context.Context, store offerstore.Store) {
	srcs, err := buildSources(nil, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build sources", "err", err)
		return
	}

	now := timezone.Now()
	results := crawl.Run(ctx, srcs...)
	err = store.Push(ctx, offerstore.PushRequest{Time: now, Results: results})
	if err != nil {
		slog.ErrorContext(ctx, "failed to save offers", "err", err)
		return
	}
	slog.InfoContext(
		ctx, "saved crawl",
		"offers", len(crawl.Offers(results)),
		"failed_sources", len(crawl.Failures(results)),
	)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--now]",
	Short: "Crawls and saves every source on the configured schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		telemetry.InstrumentPerfStats(ctx, time.Duration(config.Watch.PerfStatsSeconds)*time.Second)

		scheduler := chrono.NewScheduler()
		err = scheduler.Add(config.Watch.Schedule, func() {
			crawlAndSave(ctx, store)
		})
		if err != nil {
			return err
		}

		if watchNow {
			crawlAndSave(ctx, store)
		}

		slog.Info("watching sources", "schedule", config.Watch.Schedule)
		scheduler.Start()
		<-ctx.Done()
		scheduler.Stop()
		slog.Info("stopped watching")
		return nil
	},
}
