package core

import (
	"context"
	"time"
)

// Capability is a named text transformation. It receives the normalized
// corpus and returns the operation output, or an error that the dispatcher
// turns into a failed outcome.
type Capability func(ctx context.Context, text string) (string, error)

// Func adapts a plain string transformation to a Capability.
func Func(fn func(string) string) Capability {
	return func(_ context.Context, text string) (string, error) {
		return fn(text), nil
	}
}

// FuncErr adapts a fallible string transformation to a Capability.
func FuncErr(fn func(string) (string, error)) Capability {
	return func(_ context.Context, text string) (string, error) {
		return fn(text)
	}
}

// Outcome is the result of one requested operation.
type Outcome struct {
	Title   string `json:"title"`
	Output  string `json:"output"`
	Success bool   `json:"success"`
}

// ResultSet is the ordered list of outcomes for a request. Index i always
// corresponds to the i-th requested operation.
type ResultSet []Outcome

// Failed returns the number of unsuccessful outcomes.
func (rs ResultSet) Failed() int {
	n := 0
	for _, o := range rs {
		if !o.Success {
			n++
		}
	}
	return n
}

// Corpus is the normalized text handed to every capability.
type Corpus struct {
	Text    string // text passed to capabilities
	Tabular bool   // true when a content column was extracted
	Column  string // selected column name, empty for plain text
	Rows    int    // data rows joined into Text (0 for plain text)

	// ParseErr is set when the input looked tabular but could not be parsed.
	// Text then holds the raw input.
	ParseErr error
}

// Chunks returns the number of input segments analyzed.
func (c Corpus) Chunks() int {
	if c.Tabular {
		return c.Rows
	}
	return 1
}

// AnalyzeRequest is the input of a dispatch run.
type AnalyzeRequest struct {
	Text       string
	Operations []string
	Email      string // optional, for history
	Filename   string // optional, for history
}

// RunStats summarizes a dispatch run.
type RunStats struct {
	TotalChunks    int     `json:"total_chunks"`
	ProcessingTime float64 `json:"processing_time"` // seconds
	Failed         int     `json:"failed"`
	Alert          bool    `json:"alert"`
}

// AnalyzeResult is the output of a dispatch run.
type AnalyzeResult struct {
	RunID   string
	Results ResultSet
	Stats   RunStats
	Corpus  Corpus
}

// HistoryEntry is one processed operation recorded for later review.
type HistoryEntry struct {
	ID               string    `json:"id"`
	RunID            string    `json:"run_id"`
	Email            string    `json:"email"`
	Filename         string    `json:"filename"`
	Operation        string    `json:"operation"`
	Success          bool      `json:"success"`
	RecordsProcessed int       `json:"records_processed"`
	CreatedAt        time.Time `json:"created_at"`
}

// User is a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// HistoryStore persists processing history. Implementations must be safe
// for concurrent use.
type HistoryStore interface {
	Record(ctx context.Context, entries []HistoryEntry) error
	Recent(ctx context.Context, email string, limit int) ([]HistoryEntry, error)
	Search(ctx context.Context, query string, limit int) ([]HistoryEntry, error)
}

// HistoryPruner is implemented by history stores that support retention.
type HistoryPruner interface {
	Prune(ctx context.Context, cutoff time.Time, batchSize int) (int64, error)
}

// UserStore persists accounts. CreateUser returns ErrUserExists when the
// email is taken; GetUserByEmail returns ErrUserNotFound when absent.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
