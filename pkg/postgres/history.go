package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/working-groups/pkg/db"
)

// InsertAllocationRun inserts a new allocation run record
func (d *DB) InsertAllocationRun(ctx context.Context, run *db.AllocationRun) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO allocation_run (id, created_at, seed, group_count, member_count, placed_count, unplaced_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.CreatedAt, run.Seed, run.GroupCount, run.MemberCount, run.PlacedCount, run.UnplacedCount)
	if err != nil {
		return fmt.Errorf("failed to insert allocation run: %w", err)
	}
	return nil
}

// InsertGroupAssignments inserts the assignments of a run in one transaction
func (d *DB) InsertGroupAssignments(ctx context.Context, assignments []db.GroupAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(`
			INSERT INTO group_assignment (id, run_id, group_id, group_name, member_id, member_name, household, weeks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.ID, a.RunID, a.GroupID, nullable(a.GroupName), a.MemberID, a.MemberName, a.Household, nullable(a.Weeks))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert group assignments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAllocationRuns retrieves all allocation runs, newest first
func (d *DB) GetAllocationRuns(ctx context.Context) ([]db.AllocationRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, created_at, seed, group_count, member_count, placed_count, unplaced_count
		FROM allocation_run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.AllocationRun, error) {
		var r db.AllocationRun
		err := row.Scan(&r.ID, &r.CreatedAt, &r.Seed, &r.GroupCount, &r.MemberCount, &r.PlacedCount, &r.UnplacedCount)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan allocation runs: %w", err)
	}

	return runs, nil
}

// GetGroupAssignments retrieves the assignments recorded for a run
func (d *DB) GetGroupAssignments(ctx context.Context, runID string) ([]db.GroupAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, run_id::text, group_id, group_name, member_id, member_name, household, weeks
		FROM group_assignment
		WHERE run_id = $1
		ORDER BY group_id, member_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group assignments: %w", err)
	}

	assignments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.GroupAssignment, error) {
		var a db.GroupAssignment
		var groupName, weeks *string
		if err := row.Scan(&a.ID, &a.RunID, &a.GroupID, &groupName, &a.MemberID, &a.MemberName, &a.Household, &weeks); err != nil {
			return a, err
		}
		if groupName != nil {
			a.GroupName = *groupName
		}
		if weeks != nil {
			a.Weeks = *weeks
		}
		return a, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan group assignments: %w", err)
	}

	return assignments, nil
}

// nullable maps empty strings to NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
