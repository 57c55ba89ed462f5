package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/format"
)

var getCmd = &cobra.Command{
	Use:     "get <task-id>",
	Aliases: []string{"show"},
	Short:   "Get one task by ID.",
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

		task, err := client.GetTask(cmd.Context(), taskID)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, task)
		}
		format.TaskDetails(os.Stdout, task)
		return nil
	},
}
