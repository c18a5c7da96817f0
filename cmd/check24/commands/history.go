package commands

import (
	"fmt"
	"time"

	"check24-backend/lib/offers"
	"check24-backend/lib/offerstore"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	output outputFlags
	source string
}

func init() {
	historyFlags.output.register(historyCmd)
	historyCmd.Flags().StringVar(&historyFlags.source, "source", "", "Only show offers of this source.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--source <name>] [--type <credit type>]",
	Short: "Prints the last saved offers of every source.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := historyFlags.output.validate()
		if err != nil {
			return err
		}
		creditType, _ := historyFlags.output.filterType()

		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		snapshots, err := store.Pull(cmd.Context(), offerstore.PullRequest{
			Source: historyFlags.source,
			Type:   creditType,
		})
		if err != nil {
			return err
		}

		var all []offers.CreditOffer
		for _, s := range snapshots {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: crawled at %s\n", s.Source, s.Time.Format(time.DateTime))
			all = append(all, s.Offers...)
		}
		return renderOffers(cmd.OutOrStdout(), historyFlags.output.format, historyFlags.output.apply(all))
	},
}
