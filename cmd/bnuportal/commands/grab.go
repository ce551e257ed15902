package commands

import (
	"log/slog"
	"time"

	"bnuportal/lib/scrapers/jwc/extract"
	"bnuportal/lib/scrapers/jwc/grab"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(grabCmd)
}

var grabCmd = &cobra.Command{
	Use:   "grab",
	Short: "Contends for every wishlist seat until the list is empty.",
	Long: "Repeatedly attempts every wishlist enrollment, backing off as the " +
		"portal pushes back, until each item either succeeds or is rejected " +
		"outright. Ctrl+C stops between cycles; whatever is still pending is " +
		"written back to the wishlist.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		wl := loadWishlist()
		if len(wl.Elective) == 0 && len(wl.Plan) == 0 {
			slog.Info("wishlist is empty, nothing to grab")
			return
		}

		client := createClient(ctx)

		worklist := &grab.Worklist{Elective: wl.Elective}
		for _, rec := range wl.Plan {
			worklist.Planned = append(worklist.Planned, grab.PlannedItem{
				Course:  rec,
				Section: extract.Record{"skbjdm": rec["skbjdm"]},
			})
		}

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " contending for seats..."
		s.Start()
		err := grab.NewScheduler(client).Run(ctx, worklist)
		s.Stop()

		// whatever is still pending survives to the next run
		wl = Wishlist{Elective: worklist.Elective}
		for _, item := range worklist.Planned {
			wl.Plan = append(wl.Plan, item.Course)
		}
		saveWishlist(wl)

		if err != nil {
			slog.Warn("grab interrupted", "err", err, "pending", len(wl.Elective)+len(wl.Plan))
			return
		}
		slog.Info("wishlist fully resolved")
	},
}
