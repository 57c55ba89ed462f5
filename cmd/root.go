package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/clierr"
	"github.com/cruzluna/reclaim-cli/internal/config"
)

// Output format flag values.
const (
	formatText = "text"
	formatJSON = "json"
)

var (
	// Global flags
	apiKey       string
	baseURL      string
	timeoutSecs  uint64
	outputFormat string
	debug        bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Simple CLI for Reclaim.ai tasks.",
	Long: `Simple CLI for Reclaim.ai tasks.

Set your API key with RECLAIM_API_KEY or pass --api-key.
Use --format json when another tool/agent will parse the output.`,
	Example: `  reclaim list
  reclaim list --all --format json
  reclaim get 123
  reclaim patch 123 --set priority=P4 --set snoozeUntil=2026-02-25T17:00:00Z
  reclaim put 123 --set priority=P2 --set due=2026-02-28T17:00:00Z
  reclaim delete 123
  reclaim create --title "Plan Q1 roadmap" --priority P2 --event-category WORK
  RECLAIM_API_KEY=... reclaim list

Agent-friendly tip: Use --format json for stable machine-readable output
and --json/--set for updates.`,
	Version:       "dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != formatText && outputFormat != formatJSON {
			return &clierr.UsageError{
				Message: fmt.Sprintf("Invalid --format value '%s': expected one of text, json.", outputFormat),
				Hint:    "Example: --format json",
			}
		}
		if debug {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiKey, "api-key", "", "Reclaim API key. Falls back to RECLAIM_API_KEY.")
	flags.StringVar(&baseURL, "base-url", config.DefaultBaseURL, "Reclaim API base URL.")
	flags.Uint64Var(&timeoutSecs, "timeout-secs", config.DefaultTimeoutSecs, "HTTP timeout in seconds.")
	flags.StringVar(&outputFormat, "format", formatText, "Output format (text or json).")
	flags.BoolVar(&debug, "debug", false, "Show request/response logs on stderr.")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &clierr.UsageError{
			Message: fmt.Sprintf("%s.", err),
			Hint:    "Run: " + cmd.CommandPath() + " --help",
		}
	})

	// Register all subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(manCmd)
}

// jsonOutput reports whether --format json was requested.
func jsonOutput() bool {
	return outputFormat == formatJSON
}

// settingsFromFlags maps only explicitly passed flags onto overrides so the
// environment and config file keep their precedence for everything else.
func settingsFromFlags(cmd *cobra.Command) config.Settings {
	overrides := config.Settings{APIKey: apiKey}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		overrides.BaseURL = baseURL
	}
	if flags.Changed("timeout-secs") {
		overrides.TimeoutSecs = timeoutSecs
	}
	return overrides
}

// newClient resolves settings and builds the API client. Commands call this
// after flag-level validation and before any payload work that needs the
// network.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	settings, err := config.Resolve(settingsFromFlags(cmd))
	if err != nil {
		return nil, err
	}
	return api.NewClient(settings, nil)
}

// parseTaskID parses a positional task ID argument.
func parseTaskID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid task ID '%s': expected an unsigned integer.", arg),
			Hint:    "Example: reclaim get 123",
		}
	}
	return id, nil
}

// parseCalendarID parses a calendar ID flag or positional argument.
func parseCalendarID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, &clierr.UsageError{
			Message: fmt.Sprintf("Invalid calendar ID '%s': expected an unsigned integer.", arg),
			Hint:    "Calendar IDs are numeric, e.g. 829105.",
		}
	}
	return id, nil
}
