package repositoryimpl

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/kazz187/taskchat/internal/conversation"
	"github.com/kazz187/taskchat/internal/sqlitedb"
	"github.com/kazz187/taskchat/pkg/cerr"
)

const (
	conversationColumns = `id, user_id, title, created_at, updated_at`
	messageColumns      = `id, conversation_id, role, content, created_at`
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (`+conversationColumns+`) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, sqlitedb.ToUnix(c.CreatedAt), sqlitedb.ToUnix(c.UpdatedAt))
	if err != nil {
		return cerr.WrapStorageWriteError("conversation", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	c, err := scanConversation(row)
	if err != nil {
		return nil, cerr.WrapStorageReadError("Conversation", err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context, userID string, page conversation.Page) ([]*conversation.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset)
	if err != nil {
		return nil, cerr.WrapStorageReadError("conversations", err)
	}
	defer rows.Close()

	var out []*conversation.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, cerr.WrapStorageReadError("conversations", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.WrapStorageReadError("conversations", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return cerr.WrapStorageDeleteError("conversation", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return cerr.WrapStorageDeleteError("conversation", fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return cerr.NewError(cerr.NotFound, "Conversation not found", nil)
	}
	return nil
}

func (r *SQLiteRepository) AddMessage(ctx context.Context, m *conversation.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return cerr.WrapStorageWriteError("message", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?`,
		sqlitedb.ToUnix(m.CreatedAt), m.ConversationID)
	if err != nil {
		return cerr.WrapStorageWriteError("conversation", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return cerr.NewError(cerr.NotFound, "Conversation not found", nil)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.Role, m.Content, sqlitedb.ToUnix(m.CreatedAt)); err != nil {
		return cerr.WrapStorageWriteError("message", err)
	}
	if err := tx.Commit(); err != nil {
		return cerr.WrapStorageWriteError("message", err)
	}
	return nil
}

func (r *SQLiteRepository) Messages(ctx context.Context, conversationID string, page conversation.Page) ([]*conversation.Message, error) {
	return r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		conversationID, page.Limit, page.Offset)
}

func (r *SQLiteRepository) Recent(ctx context.Context, conversationID string, n int) ([]*conversation.Message, error) {
	msgs, err := r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`,
		conversationID, n)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (r *SQLiteRepository) queryMessages(ctx context.Context, query string, args ...any) ([]*conversation.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, cerr.WrapStorageReadError("messages", err)
	}
	defer rows.Close()

	var out []*conversation.Message
	for rows.Next() {
		var (
			m       conversation.Message
			created int64
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &created); err != nil {
			return nil, cerr.WrapStorageReadError("messages", err)
		}
		m.CreatedAt = sqlitedb.FromUnix(created)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.WrapStorageReadError("messages", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(s scanner) (*conversation.Conversation, error) {
	var (
		c                conversation.Conversation
		title            sql.NullString
		created, updated int64
	)
	if err := s.Scan(&c.ID, &c.UserID, &title, &created, &updated); err != nil {
		return nil, err
	}
	c.Title = title.String
	c.CreatedAt = sqlitedb.FromUnix(created)
	c.UpdatedAt = sqlitedb.FromUnix(updated)
	return &c, nil
}
