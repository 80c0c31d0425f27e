package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me/taskflow/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Task CRUD ---

const taskColumns = `id, user_id, name, description, importance, priority, energy_level,
	duration, time_estimate, deadline, status, created_at, updated_at`

// CreateTask inserts rec and its dependency edges. An empty ID is filled in
// with a fresh "task_" id, and zero timestamps with the current time.
func (s *SQLiteStore) CreateTask(ctx context.Context, rec *model.TaskRecord) error {
	if rec.ID == "" {
		rec.ID = "task_" + uuid.New().String()
	}
	if rec.Status == "" {
		rec.Status = model.TaskStatusPending
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	s.logger.Debug("sql", "op", "insert", "table", "tasks", "id", rec.ID, "user_id", rec.UserID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Name, rec.Description, rec.Importance,
		string(rec.Priority), string(rec.EnergyLevel), rec.Duration, rec.TimeEstimate,
		formatDeadline(rec.Deadline), string(rec.Status),
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	for _, dep := range rec.Dependencies {
		if err := insertDependency(ctx, tx, rec.ID, dep); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTask returns the task with the given id, or nil if it does not exist.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.TaskRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "tasks", "id", id)

	rec, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, dependency_id FROM task_dependencies WHERE task_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	if err := attachDependencies(rows, map[string]*model.TaskRecord{id: rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListTasksByUser returns a page of the user's tasks in insertion order,
// together with the total number of matching tasks.
func (s *SQLiteStore) ListTasksByUser(ctx context.Context, userID string, opts model.ListOptions) ([]*model.TaskRecord, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "tasks", "user_id", userID, "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	whereClauses := []string{"user_id = ?"}
	args := []any{userID}
	if opts.Status != "" {
		whereClauses = append(whereClauses, "status = ?")
		args = append(args, string(opts.Status))
	}
	whereSQL := " WHERE " + strings.Join(whereClauses, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + taskColumns + ` FROM tasks` + whereSQL +
		` ORDER BY rowid ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, listQuery, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	var recs []*model.TaskRecord
	byID := make(map[string]*model.TaskRecord)
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		recs = append(recs, rec)
		byID[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	if len(recs) == 0 {
		return recs, total, nil
	}

	depRows, err := s.db.QueryContext(ctx,
		`SELECT d.task_id, d.dependency_id FROM task_dependencies d
		 JOIN tasks t ON t.id = d.task_id
		 WHERE t.user_id = ? ORDER BY d.rowid`, userID)
	if err != nil {
		return nil, 0, err
	}
	if err := attachDependencies(depRows, byID); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// UpdateTask overwrites the task's fields. The status change, if any, must be
// an allowed transition. Dependencies are managed with AddDependency and
// RemoveDependency and are not touched here.
func (s *SQLiteStore) UpdateTask(ctx context.Context, rec *model.TaskRecord) error {
	s.logger.Debug("sql", "op", "update", "table", "tasks", "id", rec.ID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM tasks WHERE id = ?`, rec.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewNotFoundError("task", rec.ID)
	}
	if err != nil {
		return err
	}
	if from := model.TaskStatus(current); !from.CanTransitionTo(rec.Status) {
		return &model.InvalidTransitionError{
			Entity: "task",
			ID:     rec.ID,
			From:   from.String(),
			To:     rec.Status.String(),
		}
	}

	rec.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET name=?, description=?, importance=?, priority=?, energy_level=?,
		 duration=?, time_estimate=?, deadline=?, status=?, updated_at=? WHERE id=?`,
		rec.Name, rec.Description, rec.Importance, string(rec.Priority), string(rec.EnergyLevel),
		rec.Duration, rec.TimeEstimate, formatDeadline(rec.Deadline), string(rec.Status),
		rec.UpdatedAt.Format(time.RFC3339Nano), rec.ID,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTask removes a task. Edges from and to it go with it.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "tasks", "id", id)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.NewNotFoundError("task", id)
	}
	return nil
}

// --- Dependencies ---

// AddDependency records that taskID waits on dependencyID. Both tasks must
// exist and belong to the same user. Adding an existing edge is a no-op.
func (s *SQLiteStore) AddDependency(ctx context.Context, taskID, dependencyID string) error {
	s.logger.Debug("sql", "op", "insert", "table", "task_dependencies", "task_id", taskID, "dependency_id", dependencyID)

	if taskID == dependencyID {
		return model.NewSchedulingError(model.KindCyclicDependency, "task cannot depend on itself", taskID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertDependency(ctx, tx, taskID, dependencyID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveDependency deletes the edge taskID -> dependencyID.
func (s *SQLiteStore) RemoveDependency(ctx context.Context, taskID, dependencyID string) error {
	s.logger.Debug("sql", "op", "delete", "table", "task_dependencies", "task_id", taskID, "dependency_id", dependencyID)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = ? AND dependency_id = ?`, taskID, dependencyID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.NewNotFoundError("dependency", taskID+" -> "+dependencyID)
	}
	return nil
}

// insertDependency adds one edge inside tx. The dependency must be a task of
// the same user as taskID.
func insertDependency(ctx context.Context, tx *sql.Tx, taskID, dependencyID string) error {
	var owner string
	err := tx.QueryRowContext(ctx, `SELECT user_id FROM tasks WHERE id = ?`, taskID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewNotFoundError("task", taskID)
	}
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_dependencies (task_id, dependency_id)
		 SELECT ?, id FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, dependencyID, owner)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	// Nothing inserted: either the edge already exists or the dependency is
	// not one of the owner's tasks.
	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_dependencies WHERE task_id = ? AND dependency_id = ?`,
		taskID, dependencyID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.NewSchedulingError(model.KindMissingDependency,
			fmt.Sprintf("task %s depends on an unknown task", taskID), dependencyID)
	}
	return nil
}

// --- helpers ---

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*model.TaskRecord, error) {
	var rec model.TaskRecord
	var priority, energy, status, createdAt, updatedAt string
	var deadline *string

	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Description, &rec.Importance,
		&priority, &energy, &rec.Duration, &rec.TimeEstimate, &deadline, &status,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rec.Priority = model.Level(priority)
	rec.EnergyLevel = model.Level(energy)
	rec.Status = model.TaskStatus(status)
	rec.Dependencies = []string{}
	if deadline != nil {
		t, err := time.Parse(time.RFC3339Nano, *deadline)
		if err != nil {
			return nil, fmt.Errorf("parse deadline of %s: %w", rec.ID, err)
		}
		rec.Deadline = &t
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &rec, nil
}

// attachDependencies appends each (task_id, dependency_id) row to the
// matching record in byID and closes rows.
func attachDependencies(rows *sql.Rows, byID map[string]*model.TaskRecord) error {
	defer rows.Close()
	for rows.Next() {
		var taskID, depID string
		if err := rows.Scan(&taskID, &depID); err != nil {
			return err
		}
		if rec, ok := byID[taskID]; ok {
			rec.Dependencies = append(rec.Dependencies, depID)
		}
	}
	return rows.Err()
}

func formatDeadline(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
