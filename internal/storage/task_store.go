// Package storage provides SQLite persistence for TaskPulse.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskpulse/taskpulse/internal/core"
)

// TaskStore persists task history. It is the external history
// collaborator: the learner and the aggregator consume its records
// but hold no persistent state of their own.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a new task store
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// Append adds a record to the history
func (s *TaskStore) Append(ctx context.Context, rec core.TaskRecord) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO tasks (id, task_type, time_of_day, urgency, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.TaskType, rec.TimeOfDay, rec.Urgency, rec.Priority, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append task: %w", err)
	}
	return nil
}

// GetByID returns a single record
func (s *TaskStore) GetByID(ctx context.Context, id string) (core.TaskRecord, error) {
	var rec core.TaskRecord
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, task_type, time_of_day, urgency, priority, created_at
		FROM tasks WHERE id = ?
	`, id).Scan(&rec.ID, &rec.TaskType, &rec.TimeOfDay, &rec.Urgency, &rec.Priority, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return core.TaskRecord{}, core.ErrTaskNotFound
	}
	if err != nil {
		return core.TaskRecord{}, fmt.Errorf("get task: %w", err)
	}
	return rec, nil
}

// Recent returns the newest records, most recent first
func (s *TaskStore) Recent(ctx context.Context, limit int) ([]core.TaskRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, task_type, time_of_day, urgency, priority, created_at
		FROM tasks
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// All returns the entire history in insertion order
func (s *TaskStore) All(ctx context.Context) ([]core.TaskRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, task_type, time_of_day, urgency, priority, created_at
		FROM tasks
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Count returns the size of the history
func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// Reset wipes the history and reseeds it in a single transaction
func (s *TaskStore) Reset(ctx context.Context, records []core.TaskRecord) error {
	return s.db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("wipe tasks: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tasks (id, task_type, time_of_day, urgency, priority, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare reseed: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, rec.ID, rec.TaskType, rec.TimeOfDay, rec.Urgency, rec.Priority, rec.CreatedAt); err != nil {
				return fmt.Errorf("reseed task %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

func scanTasks(rows *sql.Rows) ([]core.TaskRecord, error) {
	var records []core.TaskRecord
	for rows.Next() {
		var rec core.TaskRecord
		if err := rows.Scan(&rec.ID, &rec.TaskType, &rec.TimeOfDay, &rec.Urgency, &rec.Priority, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
