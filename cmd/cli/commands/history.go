package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/working-groups/pkg/core/services"
)

const defaultHistoryCount = 10

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history [count]",
		Short: "List recent allocation runs (newest first)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := defaultHistoryCount
			if len(args) > 0 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed < 1 {
					return fmt.Errorf("count must be a positive integer, got: %s", args[0])
				}
				count = parsed
			}

			store, err := app.historyReader()
			if err != nil {
				return err
			}

			runs, err := services.ListHistory(app.Ctx, store, app.Logger, count)
			if err != nil {
				return err
			}

			fmt.Println(RenderRuns(runs))
			return nil
		},
	}
}

// ShowRunCmd creates the showRun command
func ShowRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showRun <run_id>",
		Short: "Show the groups recorded for an allocation run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.historyReader()
			if err != nil {
				return err
			}

			details, err := services.GetRun(app.Ctx, store, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Println(RenderRun(details))
			return nil
		},
	}
}
