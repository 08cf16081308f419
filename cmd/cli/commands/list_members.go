package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/working-groups/pkg/core/services"
)

// ListMembersCmd creates the listMembers command
func ListMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List all members from the member sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ListMembers(app.SheetsClient, app.Metrics, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Println(RenderMembers(result))
			return nil
		},
	}
}
