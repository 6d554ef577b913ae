package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/theakshaypant/gigcheck/internal/check"
	"github.com/theakshaypant/gigcheck/internal/conflict"
	"github.com/theakshaypant/gigcheck/internal/core"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List calendar entries that clash with a show",
	Long: `Estimate the time you will spend at a show and list the calendar
entries overlapping it.

The window starts an hour before doors open and ends an hour after the
estimated end of the show: 2 hours for a solo act, 3 for two acts and one
hour per act beyond that, capped at 10.

Examples:
  gigcheck check --venue "Zepp Shinjuku" --open 2026-10-20T17:30 --start 2026-10-20T18:30 -a "Band A" -a "Band B"
  gigcheck check -f tour.yaml
  gigcheck check -f tour.yaml --events-file calendar.json --output json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addShowFlags(checkCmd)
	checkCmd.Flags().String("events-file", "", "JSON file of day-bucketed calendar entries to use instead of a provider")
	checkCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	shows, err := showsFromFlags(cmd)
	if err != nil {
		return err
	}

	reports, err := runReports(cmd, shows)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		return writeReportsJSON(reports)
	case "text", "":
		printReports(reports)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json)", output)
	}
}

// runReports checks shows against either the events file or the provider.
func runReports(cmd *cobra.Command, shows []conflict.Show) ([]check.Report, error) {
	loc := attendeeLocation()

	if path, _ := cmd.Flags().GetString("events-file"); path != "" {
		f, err := os.Open(expandPath(path))
		if err != nil {
			return nil, fmt.Errorf("open events file: %w", err)
		}
		defer f.Close()

		buckets, err := conflict.DecodeBuckets(f, loc, log.Logger)
		if err != nil {
			return nil, err
		}

		checker := check.NewChecker(nil, core.FetchOptions{}, check.WithLocation(loc), check.WithLogger(log.Logger))
		reports := make([]check.Report, 0, len(shows))
		for _, show := range shows {
			r, err := checker.CheckBuckets(show, buckets)
			if err != nil {
				return nil, err
			}
			reports = append(reports, r)
		}
		return reports, nil
	}

	opts, err := buildFetchOptions()
	if err != nil {
		return nil, err
	}
	checker := check.NewChecker(adapter, opts, check.WithLocation(loc), check.WithLogger(log.Logger))
	return checker.CheckAll(cmd.Context(), shows)
}

func printReports(reports []check.Report) {
	for i, r := range reports {
		if i > 0 {
			fmt.Println()
		}
		printReport(r)
	}
}

func printReport(r check.Report) {
	title := r.Show.Venue
	if title == "" {
		title = "Show"
	}

	fmt.Printf("🎤 %s\n", title)
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("  🚪 Doors:    %s\n", r.Show.OpenTime.Format("Mon, Jan 2 3:04 PM"))
	fmt.Printf("  🎶 Start:    %s (%d acts, ~%dh)\n", r.Show.StartTime.Format("Mon, Jan 2 3:04 PM"), len(r.Show.Artists), conflict.EstimateDuration(len(r.Show.Artists)))
	fmt.Printf("  🕐 Window:   %s\n", formatEventTime(r.Window.Start, r.Window.End))

	if !r.HasConflicts() {
		fmt.Println()
		fmt.Println("  ✅ No conflicts. Enjoy the show!")
		return
	}

	fmt.Println()
	fmt.Printf("  ⚠️  %d CONFLICT(S)\n", len(r.Conflicts))
	for _, e := range r.Conflicts {
		fmt.Println()
		printConflict(e, r.Details[e.ID])
	}
}

func printConflict(e conflict.Event, detail core.Event) {
	indent := "    "
	fmt.Printf("%s%s\n", indent, e.Name)
	fmt.Printf("%s🕐 When:     %s\n", indent, formatEventTime(e.Start, e.End))
	fmt.Printf("%s⏱️  Duration: %s\n", indent, formatDurationCompact(e.End.Sub(e.Start)))
	if detail.Calendar.Name != "" {
		fmt.Printf("%s📅 Calendar: %s\n", indent, detail.Calendar.Name)
	}
	if detail.Location != "" {
		fmt.Printf("%s📍 Location: %s\n", indent, detail.Location)
	}
}

type jsonReport struct {
	Show      conflict.Show    `json:"show"`
	Window    jsonWindow       `json:"window"`
	Conflicts []conflict.Event `json:"conflicts"`
}

type jsonWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func writeReportsJSON(reports []check.Report) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, jsonReport{
			Show:      r.Show,
			Window:    jsonWindow{Start: r.Window.Start, End: r.Window.End},
			Conflicts: r.Conflicts,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
