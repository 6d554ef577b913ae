package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theakshaypant/gigcheck/internal/conflict"
)

var windowCmd = &cobra.Command{
	Use:         "window",
	Short:       "Print the attendance window of a show",
	Long:        `Print the padded window gigcheck scans for a show, without reading any calendar.`,
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE:        runWindow,
}

func init() {
	rootCmd.AddCommand(windowCmd)
	addShowFlags(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	shows, err := showsFromFlags(cmd)
	if err != nil {
		return err
	}

	for _, show := range shows {
		w := show.Window()
		name := show.Venue
		if name == "" {
			name = "Show"
		}
		fmt.Printf("%s: %s (%dh estimated, %d days scanned)\n",
			name,
			formatEventTime(w.Start, w.End),
			conflict.EstimateDuration(len(show.Artists)),
			conflict.DaysBetween(conflict.DayOf(w.Start, attendeeLocation()), conflict.DayOf(w.End, attendeeLocation()))+1,
		)
	}
	return nil
}
