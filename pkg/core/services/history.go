package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/pkg/db"
)

// ErrRunNotFound is returned when no stored run has the requested ID
var ErrRunNotFound = errors.New("allocation run not found")

// HistoryReader defines the store operations needed to read past runs
type HistoryReader interface {
	GetAllocationRuns(ctx context.Context) ([]db.AllocationRun, error)
	GetGroupAssignments(ctx context.Context, runID string) ([]db.GroupAssignment, error)
}

// StoredGroup is one working group reconstructed from history
type StoredGroup struct {
	ID          string
	Name        string
	Weeks       string
	Assignments []db.GroupAssignment
}

// RunDetails represents a stored run with its groups
type RunDetails struct {
	Run      db.AllocationRun
	Groups   []StoredGroup
	Unplaced []db.GroupAssignment
}

// ListHistory returns the most recent runs, newest first. count <= 0 returns every run.
func ListHistory(ctx context.Context, store HistoryReader, logger *zap.Logger, count int) ([]db.AllocationRun, error) {
	runs, err := store.GetAllocationRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocation runs: %w", err)
	}
	logger.Debug("Found allocation runs", zap.Int("count", len(runs)))

	if count > 0 && len(runs) > count {
		runs = runs[:count]
	}
	return runs, nil
}

// GetRun loads a stored run and regroups its assignments in first-seen group order
func GetRun(ctx context.Context, store HistoryReader, logger *zap.Logger, runID string) (*RunDetails, error) {
	runs, err := store.GetAllocationRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allocation runs: %w", err)
	}

	var details *RunDetails
	for _, run := range runs {
		if run.ID == runID {
			details = &RunDetails{Run: run}
			break
		}
	}
	if details == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	assignments, err := store.GetGroupAssignments(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group assignments: %w", err)
	}
	logger.Debug("Found group assignments", zap.String("run_id", runID), zap.Int("count", len(assignments)))

	index := make(map[string]int)
	for _, a := range assignments {
		if a.IsUnplaced() {
			details.Unplaced = append(details.Unplaced, a)
			continue
		}
		i, ok := index[a.GroupID]
		if !ok {
			i = len(details.Groups)
			index[a.GroupID] = i
			details.Groups = append(details.Groups, StoredGroup{ID: a.GroupID, Name: a.GroupName, Weeks: a.Weeks})
		}
		details.Groups[i].Assignments = append(details.Groups[i].Assignments, a)
	}

	return details, nil
}
