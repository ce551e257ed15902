package commands

import (
	"os"

	"bnuportal/lib/scrapers/jwc/extract"
	"bnuportal/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showFull *bool

func init() {
	showFull = coursesCmd.PersistentFlags().Bool(
		"full", false,
		"Include sections that are already at capacity.",
	)
	coursesCmd.AddCommand(coursesPlanCmd)
	coursesCmd.AddCommand(coursesElectiveCmd)
	coursesCmd.AddCommand(coursesCancelableCmd)
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Lists courses visible to this account.",
}

type column struct {
	header string
	field  string
}

func printRecords(records []extract.Record, columns []column) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := table.Row{"#"}
	for _, c := range columns {
		header = append(header, c.header)
	}
	t.AppendHeader(header)

	for i, r := range records {
		row := table.Row{i}
		for _, c := range columns {
			row = append(row, r[c.field])
		}
		t.AppendRow(row)
	}
	t.Render()
}

var coursesPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Lists the courses of your training plan.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)
		courses, err := client.PlanCourses(ctx, *showFull)
		if err != nil {
			serviceutil.Fatal("failed to list plan courses", err)
		}
		printRecords(courses, []column{
			{"course", "kc"},
			{"teacher", "rkjs"},
			{"schedule", "sksjdd"},
			{"credits", "xf"},
			{"status", "xk_status"},
			{"category", "lb"},
		})
	},
}

var coursesElectiveCmd = &cobra.Command{
	Use:   "elective",
	Short: "Lists the school-wide elective sections.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)
		courses, err := client.ElectiveCourses(ctx, *showFull)
		if err != nil {
			serviceutil.Fatal("failed to list elective courses", err)
		}
		printRecords(courses, []column{
			{"course", "kc"},
			{"teacher", "rkjs"},
			{"schedule", "sksj"},
			{"room", "skdd"},
			{"enrolled", "yxrs"},
			{"capacity", "xxrs"},
			{"free", "kxrs"},
			{"status", "xz"},
		})
	},
}

var coursesCancelableCmd = &cobra.Command{
	Use:   "cancelable",
	Short: "Lists selections that can still be withdrawn.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)
		courses, err := client.CancelableCourses(ctx)
		if err != nil {
			serviceutil.Fatal("failed to list cancelable courses", err)
		}
		printRecords(courses, []column{
			{"course", "kc"},
			{"teacher", "rkjs"},
			{"schedule", "sksjdd"},
			{"status", "xk_status"},
			{"campus", "school_name"},
		})
	},
}
