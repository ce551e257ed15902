package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"bnuportal/lib/scrapers/jwc/extract"
	"bnuportal/lib/serviceutil"

	"github.com/antzucaro/matchr"
	"github.com/spf13/cobra"
)

const wishlistFile = "wishlist.json"

// Wishlist is the persisted worklist: two categories of opaque course
// records, exactly as the grab loop consumes them.
type Wishlist struct {
	Plan     []extract.Record `json:"plan"`
	Elective []extract.Record `json:"elective"`
}

func loadWishlist() Wishlist {
	var w Wishlist
	contents, err := os.ReadFile(wishlistFile)
	if os.IsNotExist(err) {
		return w
	}
	if err != nil {
		serviceutil.Fatal("failed to read wishlist", err)
	}
	if err := json.Unmarshal(contents, &w); err != nil {
		serviceutil.Fatal("failed to decode wishlist", err)
	}
	return w
}

func saveWishlist(w Wishlist) {
	contents, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		serviceutil.Fatal("failed to encode wishlist", err)
	}
	if err := os.WriteFile(wishlistFile, contents, 0644); err != nil {
		serviceutil.Fatal("failed to write wishlist", err)
	}
}

// closestMatch picks the record whose `field` is nearest to `name` by
// edit distance. Course names on the portal carry a `[dd]` prefix, so an
// exact match is rarely what the user typed.
func closestMatch(records []extract.Record, field, name string) (extract.Record, error) {
	best := -1
	bestDist := 0
	for i, r := range records {
		d := matchr.Levenshtein(r[field], name)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return nil, errors.New("no courses to match against")
	}
	return records[best], nil
}

var wishPlan *bool

func init() {
	wishPlan = wishAddCmd.Flags().Bool("plan", false, "Match against the training plan instead of electives.")
	wishCmd.AddCommand(wishAddCmd)
	wishCmd.AddCommand(wishListCmd)
	wishCmd.AddCommand(wishRemoveCmd)
	rootCmd.AddCommand(wishCmd)
}

var wishCmd = &cobra.Command{
	Use:   "wish",
	Short: "Manages the enrollment wishlist consumed by grab.",
}

var wishAddCmd = &cobra.Command{
	Use:   "add <course name> [--plan]",
	Short: "Adds the closest-named course to the wishlist.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)
		wl := loadWishlist()

		if *wishPlan {
			courses, err := client.PlanCourses(ctx, true)
			if err != nil {
				serviceutil.Fatal("failed to list plan courses", err)
			}
			course, err := closestMatch(courses, "kc", args[0])
			if err != nil {
				serviceutil.Fatal("failed to match course", err)
			}

			sections, err := client.ViewPlanCourse(ctx, course)
			if err != nil {
				serviceutil.Fatal("failed to list sections", err)
			}
			if len(sections) == 0 {
				serviceutil.Fatal("course has no sections", errors.New(course["kc"]))
			}
			printRecords(sections, []column{
				{"section", "skbjdm"},
				{"teacher", "rkjs"},
				{"schedule", "sksj"},
				{"room", "skdd"},
				{"enrolled", "xkrs"},
				{"free", "kxrs"},
			})
			line, err := readLine("section #: ")
			if err != nil {
				serviceutil.Fatal("failed to read section index", err)
			}
			i, err := strconv.Atoi(line)
			if err != nil || i < 0 || i >= len(sections) {
				serviceutil.Fatal("invalid section index", fmt.Errorf("%q", line))
			}

			// store the course with the chosen section's class code so the
			// grab loop can rebuild the planned request
			merged := extract.Record{}
			for k, v := range course {
				merged[k] = v
			}
			merged["skbjdm"] = sections[i]["skbjdm"]
			wl.Plan = append(wl.Plan, merged)
		} else {
			courses, err := client.ElectiveCourses(ctx, true)
			if err != nil {
				serviceutil.Fatal("failed to list elective courses", err)
			}
			course, err := closestMatch(courses, "kc", args[0])
			if err != nil {
				serviceutil.Fatal("failed to match course", err)
			}
			wl.Elective = append(wl.Elective, course)
		}

		saveWishlist(wl)
	},
}

var wishListCmd = &cobra.Command{
	Use:   "list",
	Short: "Shows the current wishlist.",
	Run: func(cmd *cobra.Command, args []string) {
		wl := loadWishlist()
		fmt.Println("elective:")
		printRecords(wl.Elective, []column{{"course", "kc"}, {"teacher", "rkjs"}})
		fmt.Println("plan:")
		printRecords(wl.Plan, []column{{"course", "kc"}, {"section", "skbjdm"}})
	},
}

var wishRemovePlan *bool

func init() {
	wishRemovePlan = wishRemoveCmd.Flags().Bool("plan", false, "Remove from the plan category.")
}

var wishRemoveCmd = &cobra.Command{
	Use:   "remove <index> [--plan]",
	Short: "Removes a wishlist entry by index.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			serviceutil.Fatal("invalid index", err)
		}
		wl := loadWishlist()
		if *wishRemovePlan {
			if i < 0 || i >= len(wl.Plan) {
				serviceutil.Fatal("index out of range", fmt.Errorf("%d", i))
			}
			wl.Plan = append(wl.Plan[:i], wl.Plan[i+1:]...)
		} else {
			if i < 0 || i >= len(wl.Elective) {
				serviceutil.Fatal("index out of range", fmt.Errorf("%d", i))
			}
			wl.Elective = append(wl.Elective[:i], wl.Elective[i+1:]...)
		}
		saveWishlist(wl)
	},
}
