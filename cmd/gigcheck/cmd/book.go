package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theakshaypant/gigcheck/internal/check"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Add a show to your calendar",
	Long: `Add a show to your calendar as two entries: "OPEN <venue>" from doors
to curtain and "START <venue>" for the estimated length of the show.

Later checks recognise the pair and report it as a single entry.
Only the Google provider can create events.`,
	RunE: runBook,
}

func init() {
	rootCmd.AddCommand(bookCmd)
	addShowFlags(bookCmd)
	bookCmd.Flags().String("calendar", "primary", "Calendar ID to book into")
	bookCmd.Flags().Bool("force", false, "Book even if the show clashes with existing entries")
}

func runBook(cmd *cobra.Command, args []string) error {
	shows, err := showsFromFlags(cmd)
	if err != nil {
		return err
	}
	calendarID, _ := cmd.Flags().GetString("calendar")
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		reports, err := runReports(cmd, shows)
		if err != nil {
			return err
		}
		for _, r := range reports {
			if r.HasConflicts() {
				printReport(r)
				return fmt.Errorf("%s clashes with %d calendar entries, use --force to book anyway", r.Show.Venue, len(r.Conflicts))
			}
		}
	}

	for _, show := range shows {
		b, err := check.Book(cmd.Context(), adapter, calendarID, show)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Booked %s (%s, %s)\n", show.Venue, b.OpenID, b.StartID)
	}
	return nil
}
