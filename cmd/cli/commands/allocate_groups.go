package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/pkg/core/services"
)

// AllocateGroupsCmd creates the allocateGroups command
func AllocateGroupsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocateGroups",
		Short: "Allocate members into working groups and publish them to the groups sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			count, _ := cmd.Flags().GetInt("count")

			app.Logger.Debug("allocateGroups command",
				zap.String("seed", seed),
				zap.Bool("dry_run", dryRun),
				zap.Int("count", count))

			result, err := services.AllocateGroups(
				app.Ctx,
				app.SheetsClient,
				app.historyWriter(),
				app.Metrics,
				app.Cfg,
				app.Logger,
				services.AllocateGroupsOptions{
					Seed:       seed,
					DryRun:     dryRun,
					GroupCount: count,
				},
			)
			if err != nil {
				return err
			}

			fmt.Println(RenderAllocation(result))
			return nil
		},
	}

	cmd.Flags().String("seed", "", "Seed for the shuffle and group names (random when empty)")
	cmd.Flags().Bool("dry-run", false, "Allocate without writing to the sheet or the history store")
	cmd.Flags().Int("count", 0, "Number of groups (overrides groupCount from the config)")

	return cmd
}
