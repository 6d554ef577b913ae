package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var calendarsCmd = &cobra.Command{
	Use:     "calendars",
	Aliases: []string{"cal", "cals"},
	Short:   "List available calendars",
	Long:    `List all calendars the configured provider can read, including shared and subscribed ones.`,
	RunE:    runCalendars,
}

func init() {
	rootCmd.AddCommand(calendarsCmd)
}

func runCalendars(cmd *cobra.Command, args []string) error {
	calendars := adapter.Calendars()

	ids := make([]string, 0, len(calendars))
	for id := range calendars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return calendars[ids[i]] < calendars[ids[j]] })

	fmt.Printf("📅 Calendars from %s:\n", adapter.Name())
	fmt.Println("─────────────────────────────────────────────────")

	for _, id := range ids {
		fmt.Printf("\n  • %s\n", calendars[id])
		fmt.Printf("    ID: %s\n", id)
	}

	fmt.Println()
	fmt.Printf("Total: %d calendars\n", len(calendars))
	fmt.Println("\nTip: Use 'gigcheck check -c \"calendar name\"' to only check some calendars")

	return nil
}
