package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/textflow/internal/core"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserRepository implements core.UserStore on Postgres.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a user repository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts u. A taken email yields core.ErrUserExists.
func (r *UserRepository) CreateUser(ctx context.Context, u core.User) error {
	query, args, err := squirrel.Insert("users").
		Columns("id", "name", "email", "password_hash", "created_at").
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return core.ErrUserExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by exact email. Callers case-fold emails
// before storing and querying.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	query, args, err := squirrel.Select("id", "name", "email", "password_hash", "created_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return &core.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}
