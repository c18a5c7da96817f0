package commands

import (
	"errors"
	"fmt"
	"io"

	"check24-backend/lib/crawl"
	"check24-backend/lib/offerstore"
	"check24-backend/lib/restyutil"
	"check24-backend/lib/sources"
	"check24-backend/lib/timezone"

	"github.com/spf13/cobra"
)

var crawlFlags struct {
	output   outputFlags
	sources  []string
	save     bool
	dumpHttp string
}

func init() {
	crawlFlags.output.register(crawlCmd)
	crawlCmd.Flags().StringSliceVar(&crawlFlags.sources, "source", nil, "Only crawl these sources, every source when empty.")
	crawlCmd.Flags().BoolVar(&crawlFlags.save, "save", false, "Save the crawled offers to the database.")
	crawlCmd.Flags().StringVar(&crawlFlags.dumpHttp, "dump-http", "", "Write every http request and response to this directory, needs --verbose.")
	rootCmd.AddCommand(crawlCmd)
}

// buildSources applies the configured options of every source and an
// optional http dump output.
func buildSources(names []string, output restyutil.InstrumentOutput) ([]sources.Source, error) {
	opts := config.SourceOptions()
	if output != nil {
		for _, name := range crawl.Names() {
			o := opts[name]
			o.InstrumentOutput = output
			opts[name] = o
		}
	}
	return crawl.Build(opts, names...)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--source <name>]... [--format table|json|yaml] [--save]",
	Short: "Crawls the credit offers of every source and prints them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		err := crawlFlags.output.validate()
		if err != nil {
			return err
		}

		var output restyutil.InstrumentOutput
		if crawlFlags.dumpHttp != "" {
			fsOutput, err := restyutil.NewFilesystemOutput(crawlFlags.dumpHttp)
			if err != nil {
				return fmt.Errorf("create http dump directory: %w", err)
			}
			output = fsOutput
		}

		srcs, err := buildSources(crawlFlags.sources, output)
		if err != nil {
			return err
		}

		results := crawl.Run(ctx, srcs...)

		var save func() error
		if crawlFlags.save {
			save = func() error {
				store, db, err := openStore()
				if err != nil {
					return err
				}
				defer db.Close()

				return store.Push(ctx, offerstore.PushRequest{
					Time:    timezone.Now(),
					Results: results,
				})
			}
		}

		return finishCrawl(cmd.OutOrStdout(), cmd.ErrOrStderr(), crawlFlags.output, results, save)
	},
}

// finishCrawl prints the failures and the offers before running save, so
// a database error never hides what was crawled. save may be nil.
func finishCrawl(stdout, stderr io.Writer, flags outputFlags, results []crawl.Result, save func() error) error {
	allFailed := reportFailures(stderr, results)
	renderErr := renderOffers(stdout, flags.format, flags.apply(crawl.Offers(results)))

	var saveErr error
	if save != nil {
		saveErr = save()
		if saveErr != nil {
			saveErr = fmt.Errorf("save offers: %w", saveErr)
		}
	}

	if renderErr != nil || saveErr != nil {
		return errors.Join(renderErr, saveErr)
	}
	if allFailed {
		return errAllSourcesFailed
	}
	return nil
}
