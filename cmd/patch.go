package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/format"
	"github.com/cruzluna/reclaim-cli/internal/payload"
)

var (
	patchJSON            string
	patchSet             []string
	patchNotificationKey string
)

var patchCmd = &cobra.Command{
	Use:   "patch <task-id>",
	Short: "Update task fields via PATCH.",
	Long: `Update task fields via PATCH.

Pass --json with a partial task object, or pass --set key=value fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		body, err := payload.PatchBody(patchJSON, patchSet)
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		task, err := client.PatchTask(cmd.Context(), taskID, body, patchNotificationKey)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, task)
		}
		format.TaskMutation(os.Stdout, "Updated (PATCH)", task)
		return nil
	},
}

func init() {
	flags := patchCmd.Flags()
	flags.StringVar(&patchJSON, "json", "", "Partial task JSON object to send in PATCH. Must be a JSON object.")
	flags.StringArrayVar(&patchSet, "set", nil, "Field update for PATCH. Repeatable. Value supports JSON literals (true, null, numbers, arrays, objects).")
	flags.StringVar(&patchNotificationKey, "notification-key", "", "Optional notification key forwarded to the Reclaim API.")
}
