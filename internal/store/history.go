package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/textflow/internal/core"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const historyTable = "processing_history"

var historyColumns = []string{
	"id", "run_id", "email", "filename", "operation", "success", "records_processed", "created_at",
}

type historyRow struct {
	ID               string    `db:"id"`
	RunID            string    `db:"run_id"`
	Email            string    `db:"email"`
	Filename         string    `db:"filename"`
	Operation        string    `db:"operation"`
	Success          bool      `db:"success"`
	RecordsProcessed int       `db:"records_processed"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r historyRow) entry() core.HistoryEntry {
	return core.HistoryEntry{
		ID:               r.ID,
		RunID:            r.RunID,
		Email:            r.Email,
		Filename:         r.Filename,
		Operation:        r.Operation,
		Success:          r.Success,
		RecordsProcessed: r.RecordsProcessed,
		CreatedAt:        r.CreatedAt,
	}
}

// HistoryRepository implements core.HistoryStore on Postgres.
type HistoryRepository struct {
	db DBTX
}

// NewHistoryRepository creates a history repository.
func NewHistoryRepository(db DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts all entries in a single statement.
func (r *HistoryRepository) Record(ctx context.Context, entries []core.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	qb := squirrel.Insert(historyTable).
		Columns(historyColumns...).
		PlaceholderFormat(squirrel.Dollar)
	for _, e := range entries {
		qb = qb.Values(e.ID, e.RunID, e.Email, e.Filename, e.Operation, e.Success, e.RecordsProcessed, e.CreatedAt)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting history: %w", err)
	}
	return nil
}

// Recent lists the newest entries, optionally for one email.
func (r *HistoryRepository) Recent(ctx context.Context, email string, limit int) ([]core.HistoryEntry, error) {
	qb := squirrel.Select(historyColumns...).
		From(historyTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
	if email != "" {
		qb = qb.Where(squirrel.Eq{"email": email})
	}
	return r.list(ctx, qb)
}

// Search lists entries whose filename or operation contains query,
// case-insensitively.
func (r *HistoryRepository) Search(ctx context.Context, query string, limit int) ([]core.HistoryEntry, error) {
	pattern := "%" + escapeLike(query) + "%"
	qb := squirrel.Select(historyColumns...).
		From(historyTable).
		Where(squirrel.Or{
			squirrel.ILike{"filename": pattern},
			squirrel.ILike{"operation": pattern},
		}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
	return r.list(ctx, qb)
}

// Prune deletes entries created before cutoff, at most batchSize rows per
// statement, until none remain. It returns the total number deleted.
func (r *HistoryRepository) Prune(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	query, args, err := squirrel.Delete(historyTable).
		Where("id IN (SELECT id FROM "+historyTable+" WHERE created_at < ? ORDER BY created_at LIMIT ?)", cutoff, batchSize).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete query: %w", err)
	}

	var total int64
	for {
		tag, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("pruning history: %w", err)
		}
		n := tag.RowsAffected()
		total += n
		if n < int64(batchSize) {
			return total, nil
		}
	}
}

func (r *HistoryRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]core.HistoryEntry, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var rows []historyRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("scanning history: %w", err)
	}

	entries := make([]core.HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.entry()
	}
	return entries, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside an ILIKE pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}
