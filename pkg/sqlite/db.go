package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jakechorley/working-groups/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS allocation_run (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    seed TEXT NOT NULL,
    group_count INTEGER NOT NULL,
    member_count INTEGER NOT NULL,
    placed_count INTEGER NOT NULL,
    unplaced_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_assignment (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    group_name TEXT NOT NULL DEFAULT '',
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    household TEXT NOT NULL,
    weeks TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (run_id) REFERENCES allocation_run(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_group_assignment_run ON group_assignment(run_id);
`

// DB wraps a SQLite database connection holding allocation history
type DB struct {
	*sql.DB
}

// New opens the database and applies the schema
func New(dataSourceName string) (*DB, error) {
	conn, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if dataSourceName == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	d := &DB{conn}
	if err := d.RunMigrations(); err != nil {
		conn.Close()
		return nil, err
	}

	return d, nil
}

// RunMigrations creates the history tables if they do not exist
func (d *DB) RunMigrations() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InsertAllocationRun inserts a new allocation run record
func (d *DB) InsertAllocationRun(ctx context.Context, run *db.AllocationRun) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO allocation_run (id, created_at, seed, group_count, member_count, placed_count, unplaced_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC(), run.Seed, run.GroupCount, run.MemberCount, run.PlacedCount, run.UnplacedCount)
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

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO group_assignment (id, run_id, group_id, group_name, member_id, member_name, household, weeks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, a.ID, a.RunID, a.GroupID, a.GroupName, a.MemberID, a.MemberName, a.Household, a.Weeks); err != nil {
			return fmt.Errorf("failed to insert group assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAllocationRuns retrieves all allocation runs, newest first
func (d *DB) GetAllocationRuns(ctx context.Context) ([]db.AllocationRun, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, created_at, seed, group_count, member_count, placed_count, unplaced_count
		FROM allocation_run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation runs: %w", err)
	}
	defer rows.Close()

	runs := []db.AllocationRun{}
	for rows.Next() {
		var r db.AllocationRun
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Seed, &r.GroupCount, &r.MemberCount, &r.PlacedCount, &r.UnplacedCount); err != nil {
			return nil, fmt.Errorf("failed to scan allocation run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation runs: %w", err)
	}

	return runs, nil
}

// GetGroupAssignments retrieves the assignments recorded for a run
func (d *DB) GetGroupAssignments(ctx context.Context, runID string) ([]db.GroupAssignment, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, run_id, group_id, group_name, member_id, member_name, household, weeks
		FROM group_assignment
		WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group assignments: %w", err)
	}
	defer rows.Close()

	assignments := []db.GroupAssignment{}
	for rows.Next() {
		var a db.GroupAssignment
		if err := rows.Scan(&a.ID, &a.RunID, &a.GroupID, &a.GroupName, &a.MemberID, &a.MemberName, &a.Household, &a.Weeks); err != nil {
			return nil, fmt.Errorf("failed to scan group assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group assignments: %w", err)
	}

	return assignments, nil
}
