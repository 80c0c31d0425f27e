package store

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for all taskflow tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		importance    INTEGER NOT NULL DEFAULT 0,
		priority      TEXT NOT NULL DEFAULT '',
		energy_level  TEXT NOT NULL DEFAULT '',
		duration      INTEGER NOT NULL,
		deadline      TEXT,
		status        TEXT NOT NULL DEFAULT 'pending',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		task_id       TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		dependency_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		PRIMARY KEY (task_id, dependency_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_deadline ON tasks(user_id, deadline)`,
	`CREATE INDEX IF NOT EXISTS idx_task_dependencies_dependency ON task_dependencies(dependency_id)`,
}

// alterStatements are column additions that need special handling since
// SQLite doesn't support IF NOT EXISTS for ALTER TABLE ADD COLUMN.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
	indexSQL string // Optional index to create after column is added
}{
	// Estimate used by the weighted greedy strategy; older databases lack it.
	{
		table:    "tasks",
		column:   "time_estimate",
		alterSQL: "ALTER TABLE tasks ADD COLUMN time_estimate INTEGER NOT NULL DEFAULT 0",
	},
}

// migrate executes all schema DDL statements, alter migrations, and post-migration indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
		if alter.indexSQL != "" {
			if _, err := db.ExecContext(ctx, alter.indexSQL); err != nil {
				return err
			}
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if strings.EqualFold(name, column) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = db.ExecContext(ctx, alterSQL)
	return err
}
