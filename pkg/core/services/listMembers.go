package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/core/model"
	"github.com/jakechorley/working-groups/pkg/metrics"
)

// MembersResult splits the member sheet into members the allocator will consider and the rest
type MembersResult struct {
	Eligible []model.Member
	Excluded []model.Member
}

// ListMembers reads and parses the member sheet
func ListMembers(source MemberSource, collector metrics.Collector, cfg *config.Config, logger *zap.Logger) (*MembersResult, error) {
	if collector == nil {
		collector = metrics.NewNop()
	}

	members, err := source.ListMembers(cfg)
	if err != nil {
		collector.ObserveSheetOperation(OpListMembers, metrics.ResultFailure)
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	collector.ObserveSheetOperation(OpListMembers, metrics.ResultSuccess)

	result := &MembersResult{}
	for _, member := range members {
		if member.IsEligible() {
			result.Eligible = append(result.Eligible, member)
		} else {
			result.Excluded = append(result.Excluded, member)
		}
	}

	logger.Debug("Listed members",
		zap.Int("eligible", len(result.Eligible)),
		zap.Int("excluded", len(result.Excluded)))

	return result, nil
}
