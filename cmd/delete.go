package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/format"
)

var deleteNotificationKey string

var deleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Aliases: []string{"del", "rm", "remove"},
	Short:   "Delete a task.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		response, err := client.DeleteTask(cmd.Context(), taskID, deleteNotificationKey)
		if err != nil {
			return err
		}

		result := format.DeleteResult{TaskID: taskID, Deleted: true, APIResponse: response}
		if jsonOutput() {
			return format.JSON(os.Stdout, result)
		}
		return format.DeletedTask(os.Stdout, result)
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteNotificationKey, "notification-key", "", "Optional notification key forwarded to the Reclaim API.")
}
