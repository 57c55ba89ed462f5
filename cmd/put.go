package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/format"
	"github.com/cruzluna/reclaim-cli/internal/payload"
)

var (
	putJSON            string
	putSet             []string
	putNotificationKey string
)

var putCmd = &cobra.Command{
	Use:   "put <task-id>",
	Short: "Replace a task via PUT.",
	Long: `Replace a task via PUT.

Pass --json with a full task object, or pass --set key=value fields.
If only --set is passed, reclaim fetches the current task first and then
applies your updates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := payload.RequirePutSource(putJSON, putSet); err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		var body map[string]any
		if putJSON != "" {
			body, err = payload.ParseObjectArgument(putJSON, "--json")
			if err != nil {
				return err
			}
		} else {
			current, err := client.GetTask(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			object, err := payload.TaskObject(current)
			if err != nil {
				return err
			}
			updates, err := payload.ParseSetEntries(putSet)
			if err != nil {
				return err
			}
			payload.MergeFields(object, updates)
			body = object
		}

		task, err := client.PutTask(cmd.Context(), taskID, body, putNotificationKey)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return format.JSON(os.Stdout, task)
		}
		format.TaskMutation(os.Stdout, "Updated (PUT)", task)
		return nil
	},
}

func init() {
	flags := putCmd.Flags()
	flags.StringVar(&putJSON, "json", "", "Full task object JSON to send in PUT. Must be a JSON object.")
	flags.StringArrayVar(&putSet, "set", nil, "Field override for PUT. Repeatable. Value supports JSON literals (true, null, numbers, arrays, objects).")
	flags.StringVar(&putNotificationKey, "notification-key", "", "Optional notification key forwarded to the Reclaim API.")
}
