package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/theakshaypant/gigcheck/internal/check"
	"github.com/theakshaypant/gigcheck/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive TUI",
	Long: `Launch an interactive terminal user interface listing shows on the left
and the calendar entries clashing with the selected show on the right.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	addShowFlags(tuiCmd)
	tuiCmd.Flags().String("events-file", "", "JSON file of day-bucketed calendar entries to use instead of a provider")
}

func runTUI(cmd *cobra.Command, args []string) error {
	shows, err := showsFromFlags(cmd)
	if err != nil {
		return err
	}

	m := tui.NewModel(func(_ context.Context) ([]check.Report, error) {
		return runReports(cmd, shows)
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
