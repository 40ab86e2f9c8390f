package repositoryimpl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kazz187/taskchat/internal/sqlitedb"
	"github.com/kazz187/taskchat/internal/task"
	"github.com/kazz187/taskchat/pkg/cerr"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Description, t.Completed,
		sqlitedb.ToUnix(t.CreatedAt), sqlitedb.ToUnix(t.UpdatedAt))
	if err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, cerr.WrapStorageReadError("Task", err)
	}
	return t, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{filter.UserID}
	if filter.Completed != nil {
		query += ` AND completed = ?`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, cerr.WrapStorageReadError("tasks", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, cerr.WrapStorageReadError("tasks", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.WrapStorageReadError("tasks", err)
	}
	return tasks, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *task.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Completed, sqlitedb.ToUnix(t.UpdatedAt), t.ID)
	if err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return cerr.WrapStorageDeleteError("task", err)
	}
	return requireOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*task.Task, error) {
	var (
		t                task.Task
		description      sql.NullString
		created, updated int64
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &description, &t.Completed, &created, &updated); err != nil {
		return nil, err
	}
	t.Description = description.String
	t.CreatedAt = sqlitedb.FromUnix(created)
	t.UpdatedAt = sqlitedb.FromUnix(updated)
	return &t, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return cerr.WrapStorageWriteError("task", fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return cerr.NewError(cerr.NotFound, "Task not found", nil)
	}
	return nil
}
