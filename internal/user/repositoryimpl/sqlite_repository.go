package repositoryimpl

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kazz187/taskchat/internal/sqlitedb"
	"github.com/kazz187/taskchat/internal/user"
	"github.com/kazz187/taskchat/pkg/cerr"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, sqlitedb.ToUnix(u.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return cerr.NewError(cerr.AlreadyExists, "Email already registered", err)
		}
		return cerr.WrapStorageWriteError("user", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) scan(row *sql.Row) (*user.User, error) {
	var (
		u       user.User
		name    sql.NullString
		created int64
	)
	if err := row.Scan(&u.ID, &u.Email, &name, &u.PasswordHash, &created); err != nil {
		return nil, cerr.WrapStorageReadError("User", err)
	}
	u.Name = name.String
	u.CreatedAt = sqlitedb.FromUnix(created)
	return &u, nil
}
