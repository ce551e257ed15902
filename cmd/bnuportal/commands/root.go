package commands

import (
	"context"
	"fmt"
	"os"

	"bnuportal/lib/telemetry"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bnuportal",
	Short: "bnuportal is a CLI for the BNU course-selection portal.",
}

var debugHttp *bool

func init() {
	debugHttp = rootCmd.PersistentFlags().Bool(
		"debug-http", false,
		"Dump full HTTP transcripts to .dev/resty/jwc.",
	)
}

func ExecuteContext(ctx context.Context) {
	tel, err := telemetry.SetupFromEnv(ctx, "bnuportal")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer tel.Shutdown(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
