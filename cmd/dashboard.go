package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/clierr"
	"github.com/cruzluna/reclaim-cli/internal/dashboard"
)

var dashboardAll bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive task dashboard (TUI).",
	Long: `Interactive task dashboard (TUI).

Full-screen view over your task list with j/k navigation, r to refresh,
s to cycle sorting, f to cycle completion filtering, and a vim-style
:q quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput() {
			return &clierr.UsageError{
				Message: "The dashboard is an interactive TUI and only supports --format text.",
				Hint:    "Run: reclaim dashboard",
			}
		}
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return &clierr.UsageError{
				Message: "The dashboard needs an interactive terminal, and stdout is not one.",
				Hint:    "Run reclaim dashboard directly in a terminal, or use reclaim list for scriptable output.",
			}
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		return dashboard.Run(cmd.Context(), client, dashboardAll)
	},
}

func init() {
	dashboardCmd.Flags().BoolVarP(&dashboardAll, "all", "a", false, "Include all tasks, including archived/cancelled/deleted.")
}
