package commands

import (
	"os"

	"bnuportal/lib/scrapers/jwc/extract"
	"bnuportal/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scoresYear, scoresSemester *string

func init() {
	scoresYear = scoresCmd.Flags().String("year", "", "School year, defaults to the current one.")
	scoresSemester = scoresCmd.Flags().String("semester", "", "Semester, defaults to the current one.")
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(scoresCmd)
}

func printGrids(grids []extract.Grid) {
	for _, grid := range grids {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		for _, row := range grid {
			r := make(table.Row, len(row))
			for i, cell := range row {
				r[i] = cell
			}
			t.AppendRow(r)
		}
		t.Render()
	}
}

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "Shows this semester's exam arrangements.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)
		grids, err := client.ExamArrangements(ctx)
		if err != nil {
			serviceutil.Fatal("failed to fetch exam arrangements", err)
		}
		printGrids(grids)
	},
}

var scoresCmd = &cobra.Command{
	Use:   "scores [--year <xn>] [--semester <xq>]",
	Short: "Shows the score sheet for one semester.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)
		grids, err := client.Scores(ctx, *scoresYear, *scoresSemester)
		if err != nil {
			serviceutil.Fatal("failed to fetch scores", err)
		}
		printGrids(grids)
	},
}
