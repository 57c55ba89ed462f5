package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/format"
)

var (
	listAll    bool
	listFilter string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		completion, err := api.ParseCompletionFilter(listFilter)
		if err != nil {
			return err
		}

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		scope := api.FilterActive
		if listAll {
			scope = api.FilterAll
		}
		tasks, err := client.ListTasks(cmd.Context(), scope)
		if err != nil {
			return err
		}
		tasks = api.FilterByCompletion(tasks, completion)

		if jsonOutput() {
			return format.JSON(os.Stdout, tasks)
		}
		format.TaskList(os.Stdout, listAll, completion, tasks)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include all tasks, including archived/cancelled/deleted.")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Only keep tasks in this completion state (open or completed).")
}
