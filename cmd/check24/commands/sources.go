package commands

import (
	"time"

	"check24-backend/lib/crawl"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists the known sources and when they were last saved.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		saved, err := store.Sources(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Source", "Base url", "Last crawl", "Offers"})
		for _, name := range crawl.Names() {
			baseUrl := config.Sources[name].BaseUrl
			if baseUrl == "" {
				baseUrl = "(default)"
			}
			row := table.Row{name, baseUrl, "never", ""}
			for _, s := range saved {
				if s.Source == name {
					row[2] = s.LastCrawl.Format(time.DateTime)
					row[3] = s.Offers
				}
			}
			t.AppendRow(row)
		}
		t.Render()
		return nil
	},
}
