package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/core/model"
)

// WriteGroups replaces the contents of the configured groups range with one row per group
func (c *Client) WriteGroups(cfg *config.Config, groups []*model.WorkingGroup) error {
	if err := c.ClearValues(cfg.SpreadsheetID, cfg.GroupsRange); err != nil {
		return fmt.Errorf("failed to clear groups range: %w", err)
	}

	if len(groups) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, GroupRow(group))
	}

	if err := c.UpdateValues(cfg.SpreadsheetID, cfg.GroupsRange, rows, InputUserEntered); err != nil {
		return fmt.Errorf("failed to write groups: %w", err)
	}

	return nil
}

// GroupRow renders a group as [id, name, "name-household,...", "week,..."]
func GroupRow(group *model.WorkingGroup) []interface{} {
	members := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		members = append(members, member.Name+"-"+member.Household)
	}

	weeks := make([]string, 0, len(group.Weeks))
	for _, week := range group.Weeks {
		weeks = append(weeks, strconv.Itoa(week))
	}

	return []interface{}{
		group.ID,
		group.Name,
		strings.Join(members, ","),
		strings.Join(weeks, ","),
	}
}
