package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/clients/sheetsclient"
	"github.com/jakechorley/working-groups/pkg/core/allocator"
	"github.com/jakechorley/working-groups/pkg/core/groupnames"
	"github.com/jakechorley/working-groups/pkg/core/model"
	"github.com/jakechorley/working-groups/pkg/db"
	"github.com/jakechorley/working-groups/pkg/metrics"
)

// ErrNoMembers is returned when the member sheet holds no eligible members
var ErrNoMembers = errors.New("no eligible members found")

// Sheet operation names reported to the metrics collector
const (
	OpListMembers = "list_members"
	OpWriteGroups = "write_groups"
)

// MemberSource defines the sheet operations needed to read members
type MemberSource interface {
	ListMembers(cfg *config.Config) ([]model.Member, error)
}

// GroupSheet defines the sheet operations needed to read members and publish groups
type GroupSheet interface {
	MemberSource
	WriteGroups(cfg *config.Config, groups []*model.WorkingGroup) error
}

// HistoryWriter defines the store operations needed to record an allocation run
type HistoryWriter interface {
	InsertAllocationRun(ctx context.Context, run *db.AllocationRun) error
	InsertGroupAssignments(ctx context.Context, assignments []db.GroupAssignment) error
}

// AllocateGroupsOptions controls a single allocation run
type AllocateGroupsOptions struct {
	// Seed makes the run reproducible. A fresh seed is generated when empty
	Seed string
	// DryRun skips writing to the sheet and the history store
	DryRun bool
	// GroupCount overrides the configured group count when positive
	GroupCount int
}

// AllocateGroupsResult represents the result of an allocation run
type AllocateGroupsResult struct {
	RunID   string
	Seed    string
	Outcome *allocator.AllocationOutcome
	// Members are the eligible members handed to the allocator
	Members []model.Member
	// Saved reports whether the groups were written to the sheet
	Saved bool
}

// AllocateGroups reads the member sheet, allocates working groups and publishes them.
// history may be nil when no store is configured.
func AllocateGroups(
	ctx context.Context,
	sheet GroupSheet,
	history HistoryWriter,
	collector metrics.Collector,
	cfg *config.Config,
	logger *zap.Logger,
	opts AllocateGroupsOptions,
) (*AllocateGroupsResult, error) {
	if collector == nil {
		collector = metrics.NewNop()
	}

	groupCount := cfg.GroupCount
	if opts.GroupCount > 0 {
		groupCount = opts.GroupCount
	}

	logger.Debug("Fetching members", zap.String("range", cfg.MembersRange))
	allMembers, err := sheet.ListMembers(cfg)
	if err != nil {
		collector.ObserveSheetOperation(OpListMembers, metrics.ResultFailure)
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	collector.ObserveSheetOperation(OpListMembers, metrics.ResultSuccess)

	members := sheetsclient.FilterEligible(allMembers)
	logger.Debug("Found members",
		zap.Int("total", len(allMembers)),
		zap.Int("eligible", len(members)))
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	weeks, err := cfg.ResolveWeeks()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve weeks: %w", err)
	}
	logger.Debug("Resolved weeks", zap.Ints("weeks", weeks))

	seed := opts.Seed
	if seed == "" {
		seed = allocator.NewSeed()
	}
	rng := allocator.RandFromSeed(seed)

	warnIfNamesExhausted(groupCount, logger)

	start := time.Now()
	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		Members:       members,
		Weeks:         weeks,
		GroupCount:    groupCount,
		Rand:          rng,
		NameGenerator: groupnames.New(rng).Name,
	})
	elapsed := time.Since(start)
	if err != nil {
		collector.ObserveAllocation(metrics.ResultFailure, 0, 0, 0, elapsed)
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	// Counted before saving so a failed write still records the allocation
	collector.ObserveAllocation(allocationResult(outcome), outcome.PlacedCount(), len(outcome.Unplaced), len(outcome.DuplicateNames), elapsed)

	logger.Info("Allocated working groups",
		zap.String("seed", seed),
		zap.Int("groups", len(outcome.Groups)),
		zap.Int("placed", outcome.PlacedCount()),
		zap.Int("unplaced", len(outcome.Unplaced)),
		zap.Duration("elapsed", elapsed))

	for _, unplaced := range outcome.Unplaced {
		logger.Warn("Member could not be placed",
			zap.String("member_id", unplaced.Member.ID),
			zap.String("member_name", unplaced.Member.Name),
			zap.String("reason", unplaced.Reason))
	}
	if len(outcome.DuplicateNames) > 0 {
		logger.Warn("Duplicate group names accepted", zap.Strings("names", outcome.DuplicateNames))
	}
	for _, verr := range outcome.ValidationErrors {
		logger.Warn("Group validation error",
			zap.String("group_id", verr.GroupID),
			zap.String("constraint", verr.ConstraintName),
			zap.String("description", verr.Description))
	}

	result := &AllocateGroupsResult{
		RunID:   uuid.New().String(),
		Seed:    seed,
		Outcome: outcome,
		Members: members,
	}

	if !opts.DryRun {
		logger.Debug("Writing groups", zap.String("range", cfg.GroupsRange))
		if err := sheet.WriteGroups(cfg, outcome.Groups); err != nil {
			collector.ObserveSheetOperation(OpWriteGroups, metrics.ResultFailure)
			return nil, fmt.Errorf("failed to write groups: %w", err)
		}
		collector.ObserveSheetOperation(OpWriteGroups, metrics.ResultSuccess)
		result.Saved = true

		if history != nil {
			if err := recordRun(ctx, history, result, groupCount, logger); err != nil {
				return nil, err
			}
		}
	} else {
		logger.Info("Dry run, groups not saved")
	}

	return result, nil
}

func recordRun(ctx context.Context, history HistoryWriter, result *AllocateGroupsResult, groupCount int, logger *zap.Logger) error {
	outcome := result.Outcome
	run := &db.AllocationRun{
		ID:            result.RunID,
		CreatedAt:     time.Now().UTC(),
		Seed:          result.Seed,
		GroupCount:    groupCount,
		MemberCount:   len(result.Members),
		PlacedCount:   outcome.PlacedCount(),
		UnplacedCount: len(outcome.Unplaced),
	}

	logger.Debug("Recording allocation run", zap.String("run_id", run.ID))
	if err := history.InsertAllocationRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record allocation run: %w", err)
	}

	assignments := buildAssignments(run.ID, outcome)
	if err := history.InsertGroupAssignments(ctx, assignments); err != nil {
		return fmt.Errorf("failed to record group assignments: %w", err)
	}
	logger.Debug("Recorded group assignments", zap.Int("count", len(assignments)))

	return nil
}

// buildAssignments flattens an outcome into history rows.
// Placed rows carry the group's weeks, unplaced rows the member's unavailable weeks.
func buildAssignments(runID string, outcome *allocator.AllocationOutcome) []db.GroupAssignment {
	assignments := make([]db.GroupAssignment, 0, outcome.PlacedCount()+len(outcome.Unplaced))
	for _, group := range outcome.Groups {
		for _, member := range group.Members {
			assignments = append(assignments, db.GroupAssignment{
				ID:         uuid.New().String(),
				RunID:      runID,
				GroupID:    group.ID,
				GroupName:  group.Name,
				MemberID:   member.ID,
				MemberName: member.Name,
				Household:  member.Household,
				Weeks:      joinWeeks(group.Weeks),
			})
		}
	}
	for _, unplaced := range outcome.Unplaced {
		assignments = append(assignments, db.GroupAssignment{
			ID:         uuid.New().String(),
			RunID:      runID,
			GroupID:    db.UnplacedGroupID,
			MemberID:   unplaced.Member.ID,
			MemberName: unplaced.Member.Name,
			Household:  unplaced.Member.Household,
			Weeks:      joinWeeks(unplaced.Member.Weeks),
		})
	}
	return assignments
}

func warnIfNamesExhausted(groupCount int, logger *zap.Logger) {
	if groupCount <= groupnames.Combinations() {
		return
	}
	logger.Warn("More groups than distinct group names, duplicates are unavoidable",
		zap.Int("groups", groupCount),
		zap.Int("names", groupnames.Combinations()))
}

func allocationResult(outcome *allocator.AllocationOutcome) string {
	if outcome.Success {
		return metrics.ResultSuccess
	}
	return metrics.ResultPartial
}

func joinWeeks(weeks []int) string {
	parts := make([]string, len(weeks))
	for i, week := range weeks {
		parts[i] = strconv.Itoa(week)
	}
	return strings.Join(parts, ",")
}
