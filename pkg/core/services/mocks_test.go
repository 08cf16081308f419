package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/core/model"
	"github.com/jakechorley/working-groups/pkg/db"
)

// mockSheet implements GroupSheet for testing
type mockSheet struct {
	members  []model.Member
	listErr  error
	writeErr error
	written  []*model.WorkingGroup
	writes   int
}

func (m *mockSheet) ListMembers(cfg *config.Config) ([]model.Member, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.members, nil
}

func (m *mockSheet) WriteGroups(cfg *config.Config, groups []*model.WorkingGroup) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.written = groups
	return nil
}

// mockHistory implements HistoryWriter and HistoryReader for testing
type mockHistory struct {
	mu          sync.Mutex
	runs        []db.AllocationRun
	assignments []db.GroupAssignment
	insertErr   error
	getErr      error
}

func (m *mockHistory) InsertAllocationRun(ctx context.Context, run *db.AllocationRun) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockHistory) InsertGroupAssignments(ctx context.Context, assignments []db.GroupAssignment) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append(m.assignments, assignments...)
	return nil
}

func (m *mockHistory) GetAllocationRuns(ctx context.Context) ([]db.AllocationRun, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	runs := append([]db.AllocationRun(nil), m.runs...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}

func (m *mockHistory) GetGroupAssignments(ctx context.Context, runID string) ([]db.GroupAssignment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var result []db.GroupAssignment
	for _, a := range m.assignments {
		if a.RunID == runID {
			result = append(result, a)
		}
	}
	return result, nil
}

// mockCollector records metric observations
type mockCollector struct {
	allocations []string
	placed      int
	unplaced    int
	sheetOps    map[string]string
}

func (m *mockCollector) ObserveAllocation(result string, placed, unplaced, duplicates int, _ time.Duration) {
	m.allocations = append(m.allocations, result)
	m.placed += placed
	m.unplaced += unplaced
}

func (m *mockCollector) ObserveSheetOperation(op, result string) {
	if m.sheetOps == nil {
		m.sheetOps = make(map[string]string)
	}
	m.sheetOps[op] = result
}

func testConfig() *config.Config {
	return &config.Config{
		SpreadsheetID: "sheet123",
		MembersRange:  config.DefaultMembersRange,
		GroupsRange:   config.DefaultGroupsRange,
		GroupCount:    2,
		Weeks:         []int{1, 2, 3, 4},
	}
}

func member(id, household string, score int, weight float64) model.Member {
	return model.Member{ID: id, Name: "Member " + id, Household: household, Score: score, Weight: weight}
}
