package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theakshaypant/gigcheck/internal/check"
	"github.com/theakshaypant/gigcheck/internal/conflict"
)

// addShowFlags registers the flags describing a show.
func addShowFlags(cmd *cobra.Command) {
	cmd.Flags().String("venue", "", "Venue name")
	cmd.Flags().String("open", "", "Doors-open time (e.g. 2026-10-20T17:30 or RFC3339)")
	cmd.Flags().String("start", "", "Show start time")
	cmd.Flags().StringArrayP("artist", "a", nil, "Performer on the bill (repeat for each act)")
	cmd.Flags().StringP("show-file", "f", "", "YAML file with one or more shows")
}

// showsFromFlags reads shows from --show-file, or builds one from the
// individual show flags.
func showsFromFlags(cmd *cobra.Command) ([]conflict.Show, error) {
	loc := attendeeLocation()

	if path, _ := cmd.Flags().GetString("show-file"); path != "" {
		f, err := os.Open(expandPath(path))
		if err != nil {
			return nil, fmt.Errorf("open show file: %w", err)
		}
		defer f.Close()
		return check.LoadShows(f, loc)
	}

	venue, _ := cmd.Flags().GetString("venue")
	openStr, _ := cmd.Flags().GetString("open")
	startStr, _ := cmd.Flags().GetString("start")
	artists, _ := cmd.Flags().GetStringArray("artist")

	if openStr == "" || startStr == "" {
		return nil, fmt.Errorf("either --show-file or both --open and --start are required")
	}
	if len(artists) == 0 {
		return nil, fmt.Errorf("at least one --artist is required: %w", check.ErrNoArtists)
	}

	open, err := conflict.ParseTimestamp(openStr, loc)
	if err != nil {
		return nil, fmt.Errorf("--open: %w", err)
	}
	start, err := conflict.ParseTimestamp(startStr, loc)
	if err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}

	return []conflict.Show{{
		Venue:     venue,
		OpenTime:  open,
		StartTime: start,
		Artists:   artists,
	}}, nil
}
