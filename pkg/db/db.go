package db

import (
	"context"
	"fmt"
	"slices"

	"github.com/jakechorley/working-groups/pkg/sheetssql"
)

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}

// Schema returns the sheetssql schema for the history tables
func Schema() (*sheetssql.Schema, error) {
	return sheetssql.SchemaFromModels(AllocationRun{}, GroupAssignment{})
}

// InsertAllocationRun inserts a new allocation run record
func (db *DB) InsertAllocationRun(_ context.Context, run *AllocationRun) error {
	if err := sheetssql.InsertModel(db.ssql, *run); err != nil {
		return fmt.Errorf("failed to insert allocation run: %w", err)
	}
	return nil
}

// InsertGroupAssignments inserts the assignments of a run
func (db *DB) InsertGroupAssignments(_ context.Context, assignments []GroupAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	if err := sheetssql.InsertModels(db.ssql, assignments); err != nil {
		return fmt.Errorf("failed to insert group assignments: %w", err)
	}
	return nil
}

// GetAllocationRuns retrieves all allocation runs, newest first
func (db *DB) GetAllocationRuns(_ context.Context) ([]AllocationRun, error) {
	runs, err := sheetssql.GetTableAs[AllocationRun](db.ssql)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation runs: %w", err)
	}

	slices.SortStableFunc(runs, func(a, b AllocationRun) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return runs, nil
}

// GetGroupAssignments retrieves the assignments recorded for a run
func (db *DB) GetGroupAssignments(_ context.Context, runID string) ([]GroupAssignment, error) {
	assignments, err := sheetssql.GetTableWhere(db.ssql, func(a GroupAssignment) bool {
		return a.RunID == runID
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get group assignments: %w", err)
	}
	return assignments, nil
}
