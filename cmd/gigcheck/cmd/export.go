package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/theakshaypant/gigcheck/internal/conflict"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump calendar entries as day buckets",
	Long: `Fetch calendar entries and write them as a JSON object of YYYY-MM-DD day
keys to entries. The output can be fed back with 'gigcheck check --events-file'.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntP("days", "d", 30, "Number of days from today to export")
	exportCmd.Flags().String("out", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	outPath, _ := cmd.Flags().GetString("out")

	opts, err := buildFetchOptions()
	if err != nil {
		return err
	}
	now := time.Now()
	opts.Start = now
	opts.End = now.AddDate(0, 0, days)

	events, err := adapter.FetchEvents(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	converted := make([]conflict.Event, 0, len(events))
	for _, e := range events {
		converted = append(converted, conflict.FromCore(e))
	}
	buckets := conflict.BucketByDay(converted, attendeeLocation(), now)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(expandPath(outPath))
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(buckets)
}
