package db

import "context"

// Database defines the interface for allocation history operations.
// The SheetsSQL-backed db.DB, postgres.DB and sqlite.DB all implement it.
type Database interface {
	InsertAllocationRun(ctx context.Context, run *AllocationRun) error
	InsertGroupAssignments(ctx context.Context, assignments []GroupAssignment) error
	// GetAllocationRuns returns runs newest first
	GetAllocationRuns(ctx context.Context) ([]AllocationRun, error)
	GetGroupAssignments(ctx context.Context, runID string) ([]GroupAssignment, error)
}
