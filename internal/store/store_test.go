package store

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/textflow/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ core.HistoryStore  = (*HistoryRepository)(nil)
	_ core.HistoryPruner = (*HistoryRepository)(nil)
	_ core.UserStore     = (*UserRepository)(nil)
)

func TestHistoryRepository_Record(t *testing.T) {
	t.Run("inserts all entries in one statement", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		now := time.Now()
		entries := []core.HistoryEntry{
			{ID: "h1", RunID: "r1", Email: "Guest", Filename: "pasted_text", Operation: "Convert Case", Success: true, RecordsProcessed: 1, CreatedAt: now},
			{ID: "h2", RunID: "r1", Email: "Guest", Filename: "pasted_text", Operation: "Spell Check", Success: false, RecordsProcessed: 1, CreatedAt: now},
		}

		mock.ExpectExec("INSERT INTO processing_history").
			WithArgs(
				"h1", "r1", "Guest", "pasted_text", "Convert Case", true, 1, now,
				"h2", "r1", "Guest", "pasted_text", "Spell Check", false, 1, now,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))

		repo := NewHistoryRepository(mock)
		require.NoError(t, repo.Record(context.Background(), entries))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no entries is a no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewHistoryRepository(mock)
		require.NoError(t, repo.Record(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps database errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO processing_history").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		repo := NewHistoryRepository(mock)
		err = repo.Record(context.Background(), []core.HistoryEntry{{ID: "h1"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inserting history")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHistoryRepository_Prune(t *testing.T) {
	t.Run("deletes in batches until a short batch", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		cutoff := time.Now().Add(-24 * time.Hour)
		mock.ExpectExec("DELETE FROM processing_history WHERE id IN").
			WithArgs(cutoff, 2).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectExec("DELETE FROM processing_history WHERE id IN").
			WithArgs(cutoff, 2).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewHistoryRepository(mock)
		n, err := repo.Prune(context.Background(), cutoff, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns partial count on error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		cutoff := time.Now()
		mock.ExpectExec("DELETE FROM processing_history").
			WithArgs(cutoff, 1).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec("DELETE FROM processing_history").
			WithArgs(cutoff, 1).
			WillReturnError(errors.New("connection reset"))

		repo := NewHistoryRepository(mock)
		n, err := repo.Prune(context.Background(), cutoff, 1)
		require.Error(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func historyRows(mock pgxmock.PgxPoolIface, now time.Time) *pgxmock.Rows {
	return mock.NewRows(historyColumns).
		AddRow("h2", "r2", "ann@example.com", "notes.txt", "Summarization", true, 4, now).
		AddRow("h1", "r1", "ann@example.com", "notes.txt", "Spell Check", false, 4, now.Add(-time.Minute))
}

func TestHistoryRepository_Recent(t *testing.T) {
	t.Run("filters by email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT (.+) FROM processing_history WHERE email = \$1 ORDER BY created_at DESC LIMIT 20`).
			WithArgs("ann@example.com").
			WillReturnRows(historyRows(mock, now))

		repo := NewHistoryRepository(mock)
		got, err := repo.Recent(context.Background(), "ann@example.com", 20)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, core.HistoryEntry{
			ID: "h2", RunID: "r2", Email: "ann@example.com", Filename: "notes.txt",
			Operation: "Summarization", Success: true, RecordsProcessed: 4, CreatedAt: now,
		}, got[0])
		assert.False(t, got[1].Success)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all accounts without email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM processing_history ORDER BY created_at DESC LIMIT 5`).
			WillReturnRows(mock.NewRows(historyColumns))

		repo := NewHistoryRepository(mock)
		got, err := repo.Recent(context.Background(), "", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHistoryRepository_Search(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM processing_history WHERE \(filename ILIKE \$1 OR operation ILIKE \$2\) ORDER BY created_at DESC LIMIT 10`).
		WithArgs(`%50\%\_off%`, `%50\%\_off%`).
		WillReturnRows(historyRows(mock, time.Now()))

	repo := NewHistoryRepository(mock)
	got, err := repo.Search(context.Background(), "50%_off", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Summarization", got[0].Operation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `report`, escapeLike("report"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
}

func TestUserRepository_CreateUser(t *testing.T) {
	u := core.User{ID: "u1", Name: "Ann", Email: "ann@example.com", PasswordHash: "$2a$10$hash", CreatedAt: time.Now()}

	t.Run("inserts user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewUserRepository(mock).CreateUser(context.Background(), u))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrUserExists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err = NewUserRepository(mock).CreateUser(context.Background(), u)
		assert.ErrorIs(t, err, core.ErrUserExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		now := time.Now()
		rows := mock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow("u1", "Ann", "ann@example.com", "$2a$10$hash", now)
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("ann@example.com").
			WillReturnRows(rows)

		got, err := NewUserRepository(mock).GetUserByEmail(context.Background(), "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, &core.User{ID: "u1", Name: "Ann", Email: "ann@example.com", PasswordHash: "$2a$10$hash", CreatedAt: now}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err = NewUserRepository(mock).GetUserByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, core.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		b, err := fs.ReadFile(migrationsFS, f)
		require.NoError(t, err)
		sql := string(b)
		assert.True(t, strings.HasPrefix(sql, "-- +goose Up"), "%s starts with goose Up", f)
		assert.Contains(t, sql, "-- +goose Down")
		assert.NotContains(t, strings.ToUpper(strings.Split(sql, "-- +goose Down")[0]), "CREATE TABLE USERS", "creates use IF NOT EXISTS")
	}
}
