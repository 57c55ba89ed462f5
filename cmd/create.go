package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/format"
	"github.com/cruzluna/reclaim-cli/internal/payload"
)

var (
	createTitle              string
	createNotes              string
	createPriority           string
	createDue                string
	createTimeChunksRequired uint32
	createEventCategory      string
	createMinChunkSize       uint32
	createMaxChunkSize       uint32
	createAlwaysPrivate      bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task.",
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, err := payload.ParsePriority(createPriority)
		if err != nil {
			return err
		}
		eventCategory, err := payload.ParseEventCategory(createEventCategory)
		if err != nil {
			return err
		}

		spec := payload.CreateTaskSpec{
			Title:         createTitle,
			Priority:      priority,
			EventCategory: eventCategory,
		}

		// Only flags the user actually passed end up in the request body.
		flags := cmd.Flags()
		if flags.Changed("notes") {
			spec.Notes = &createNotes
		}
		if flags.Changed("due") {
			spec.Due = &createDue
		}
		if flags.Changed("time-chunks-required") {
			spec.TimeChunksRequired = &createTimeChunksRequired
		}
		if flags.Changed("min-chunk-size") {
			spec.MinChunkSize = &createMinChunkSize
		}
		if flags.Changed("max-chunk-size") {
			spec.MaxChunkSize = &createMaxChunkSize
		}
		if flags.Changed("always-private") {
			spec.AlwaysPrivate = &createAlwaysPrivate
		}

		body, err := payload.CreateTaskBody(spec)
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		task, err := client.CreateTask(cmd.Context(), body)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, task)
		}
		format.CreatedTask(os.Stdout, task)
		return nil
	},
}

func init() {
	flags := createCmd.Flags()
	flags.StringVar(&createTitle, "title", "", "Task title (required).")
	flags.StringVar(&createNotes, "notes", "", "Optional notes/description for the task.")
	flags.StringVar(&createPriority, "priority", "", "Optional priority (P1-P4).")
	flags.StringVar(&createDue, "due", "", "Optional due timestamp (ISO 8601), e.g. 2026-02-19T15:00:00Z.")
	flags.Uint32Var(&createTimeChunksRequired, "time-chunks-required", 0, "Optional total time in 15-minute chunks.")
	flags.StringVar(&createEventCategory, "event-category", "", "Optional task category (WORK or PERSONAL).")
	flags.Uint32Var(&createMinChunkSize, "min-chunk-size", 0, "Minimum chunk size in 15-minute increments.")
	flags.Uint32Var(&createMaxChunkSize, "max-chunk-size", 0, "Maximum chunk size in 15-minute increments.")
	flags.BoolVar(&createAlwaysPrivate, "always-private", false, "Whether calendar blocks should be private (true/false).")

	cobra.CheckErr(createCmd.MarkFlagRequired("title"))
}
