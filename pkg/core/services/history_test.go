package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/pkg/db"
)

func seededHistory() *mockHistory {
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	return &mockHistory{
		runs: []db.AllocationRun{
			{ID: "run-1", CreatedAt: base, Seed: "a"},
			{ID: "run-2", CreatedAt: base.Add(time.Hour), Seed: "b"},
			{ID: "run-3", CreatedAt: base.Add(2 * time.Hour), Seed: "c"},
		},
		assignments: []db.GroupAssignment{
			{ID: "a1", RunID: "run-2", GroupID: "1", GroupName: "Glade Odder", MemberID: "4", Weeks: "2,4"},
			{ID: "a2", RunID: "run-2", GroupID: "0", GroupName: "Modige Ulve", MemberID: "1", Weeks: "1,3"},
			{ID: "a3", RunID: "run-2", GroupID: "1", GroupName: "Glade Odder", MemberID: "2", Weeks: "2,4"},
			{ID: "a4", RunID: "run-2", GroupID: db.UnplacedGroupID, MemberID: "9"},
			{ID: "a5", RunID: "run-1", GroupID: "0", GroupName: "Kloge Ræve", MemberID: "1"},
		},
	}
}

func TestListHistory(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected []string
	}{
		{name: "all runs", count: 0, expected: []string{"run-3", "run-2", "run-1"}},
		{name: "limited", count: 2, expected: []string{"run-3", "run-2"}},
		{name: "count above total", count: 10, expected: []string{"run-3", "run-2", "run-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := ListHistory(t.Context(), seededHistory(), zap.NewNop(), tt.count)
			require.NoError(t, err)

			ids := make([]string, len(runs))
			for i, run := range runs {
				ids[i] = run.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestListHistory_StoreError(t *testing.T) {
	_, err := ListHistory(t.Context(), &mockHistory{getErr: errors.New("offline")}, zap.NewNop(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch allocation runs")
}

func TestGetRun_GroupsAssignments(t *testing.T) {
	details, err := GetRun(t.Context(), seededHistory(), zap.NewNop(), "run-2")
	require.NoError(t, err)

	assert.Equal(t, "b", details.Run.Seed)
	require.Len(t, details.Groups, 2)

	assert.Equal(t, "1", details.Groups[0].ID)
	assert.Equal(t, "Glade Odder", details.Groups[0].Name)
	assert.Equal(t, "2,4", details.Groups[0].Weeks)
	assert.Len(t, details.Groups[0].Assignments, 2)

	assert.Equal(t, "0", details.Groups[1].ID)
	assert.Len(t, details.Groups[1].Assignments, 1)

	require.Len(t, details.Unplaced, 1)
	assert.Equal(t, "9", details.Unplaced[0].MemberID)
}

func TestGetRun_NotFound(t *testing.T) {
	_, err := GetRun(t.Context(), seededHistory(), zap.NewNop(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListMembers_SplitsByEligibility(t *testing.T) {
	collector := &mockCollector{}
	result, err := ListMembers(&mockSheet{members: sampleMembers()}, collector, testConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, result.Eligible, 4)
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "5", result.Excluded[0].ID)
	assert.Equal(t, "success", collector.sheetOps[OpListMembers])
}

func TestListMembers_Error(t *testing.T) {
	collector := &mockCollector{}
	_, err := ListMembers(&mockSheet{listErr: errors.New("boom")}, collector, testConfig(), zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "failure", collector.sheetOps[OpListMembers])
}
