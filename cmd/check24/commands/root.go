package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"check24-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	config     Config
)

var rootCmd = &cobra.Command{
	Use:           "check24",
	Short:         "check24 crawls the credit offers of Uzbek banks into one comparable list.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var err error
		config, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "check24.json5", "The config file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

// errAllSourcesFailed exits with status 1 without printing anything more,
// the failures were reported already.
var errAllSourcesFailed = errors.New("every source failed")

func ExecuteContext(ctx context.Context) {
	t, telemetryErr := telemetry.SetupFromEnv(ctx, "check24")

	err := rootCmd.ExecuteContext(ctx)

	if telemetryErr == nil {
		t.Shutdown(context.Background())
	}
	if err != nil {
		if !errors.Is(err, errAllSourcesFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
