package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/textflow/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HistoryWriteTimeout bounds the best-effort history insert after a run.
var HistoryWriteTimeout = 5 * time.Second

// Defaults applied to AnalyzeRequest fields that only feed history.
const (
	DefaultEmail    = "Guest"
	DefaultFilename = "pasted_text"
)

// History listing limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// dummyPasswordHash is compared against when a login email is unknown so
// both branches cost one bcrypt comparison.
var dummyPasswordHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOa5hnhtNGRjukDWO2xzg3sjQTL1dDQ2u")

// Service ties normalization, dispatch, history and accounts together.
type Service struct {
	dispatcher *Dispatcher
	limiter    *AnalyzeLimiter
	history    HistoryStore
	users      UserStore
	hashCost   int
}

// ServiceOption configures optional persistence collaborators.
type ServiceOption func(*Service)

// WithHistory records one history entry per operation of each run.
func WithHistory(h HistoryStore) ServiceOption {
	return func(s *Service) { s.history = h }
}

// WithUsers enables signup and login.
func WithUsers(u UserStore) ServiceOption {
	return func(s *Service) { s.users = u }
}

// WithPasswordCost overrides the bcrypt cost used for new accounts.
func WithPasswordCost(cost int) ServiceOption {
	return func(s *Service) { s.hashCost = cost }
}

// NewService creates a new Service instance. A nil limiter gets the
// package defaults.
func NewService(d *Dispatcher, limiter *AnalyzeLimiter, opts ...ServiceOption) *Service {
	if limiter == nil {
		limiter = NewAnalyzeLimiter(0, 0)
	}
	s := &Service{
		dispatcher: d,
		limiter:    limiter,
		hashCost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Operations returns the registered operation names in registration order.
func (s *Service) Operations() []string {
	return s.dispatcher.Registry().Names()
}

// Limiter exposes the analyze limiter for health reporting and shutdown.
func (s *Service) Limiter() *AnalyzeLimiter {
	return s.limiter
}

// PersistenceEnabled reports whether accounts are backed by a store.
func (s *Service) PersistenceEnabled() bool {
	return s.users != nil
}

// Analyze normalizes req.Text, dispatches every requested operation and
// records the run in history when configured. Only limiter refusal and
// context cancellation fail the call; operation failures are part of the
// returned ResultSet.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	log := logging.FromContext(ctx)

	corpus := Normalize(req.Text)
	if corpus.ParseErr != nil {
		log.Debug("tabular input fell back to raw text", slog.String("error", corpus.ParseErr.Error()))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	results := s.dispatcher.Dispatch(ctx, corpus.Text, req.Operations)
	elapsed := time.Since(start)

	failed := results.Failed()
	res := &AnalyzeResult{
		RunID:   uuid.New().String(),
		Results: results,
		Corpus:  corpus,
		Stats: RunStats{
			TotalChunks:    corpus.Chunks(),
			ProcessingTime: elapsed.Seconds(),
			Failed:         failed,
			Alert:          failed > 0,
		},
	}

	log.Info("analysis completed",
		slog.String("run_id", res.RunID),
		slog.Int("operations", len(results)),
		slog.Int("failed", failed),
		slog.Bool("tabular", corpus.Tabular),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	)

	s.recordHistory(ctx, req, res)
	return res, nil
}

// recordHistory writes the run's entries. Errors are logged and dropped.
func (s *Service) recordHistory(ctx context.Context, req AnalyzeRequest, res *AnalyzeResult) {
	if s.history == nil || len(res.Results) == 0 {
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		email = DefaultEmail
	}
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = DefaultFilename
	}

	now := time.Now().UTC()
	entries := make([]HistoryEntry, len(res.Results))
	for i, o := range res.Results {
		entries[i] = HistoryEntry{
			ID:               uuid.New().String(),
			RunID:            res.RunID,
			Email:            email,
			Filename:         filename,
			Operation:        o.Title,
			Success:          o.Success,
			RecordsProcessed: res.Stats.TotalChunks,
			CreatedAt:        now,
		}
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), HistoryWriteTimeout)
	defer cancel()

	if err := s.history.Record(writeCtx, entries); err != nil {
		logging.FromContext(ctx).Warn("failed to record history",
			slog.String("run_id", res.RunID),
			slog.String("error", err.Error()),
		)
	}
}

// RecentHistory returns the latest entries, newest first. An empty email
// lists every account. Without a history store the result is empty.
func (s *Service) RecentHistory(ctx context.Context, email string, limit int) ([]HistoryEntry, error) {
	if s.history == nil {
		return []HistoryEntry{}, nil
	}
	entries, err := s.history.Recent(ctx, normalizeEmail(email), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return nonNil(entries), nil
}

// SearchHistory returns entries whose filename or operation contains query.
func (s *Service) SearchHistory(ctx context.Context, query string, limit int) ([]HistoryEntry, error) {
	query = strings.TrimSpace(query)
	if s.history == nil || query == "" {
		return []HistoryEntry{}, nil
	}
	entries, err := s.history.Search(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	return nonNil(entries), nil
}

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

// Signup creates an account with a bcrypt password hash.
func (s *Service) Signup(ctx context.Context, req SignupRequest) error {
	if s.users == nil {
		return ErrPersistenceDisabled
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.CreateUser(ctx, User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies credentials. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if s.users == nil {
		return nil, ErrPersistenceDisabled
	}

	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logging.FromContext(ctx).Info("login rejected",
			slog.String("email", u.Email),
			slog.String("ip", IPAddressFromContext(ctx)),
			slog.String("user_agent", UserAgentFromContext(ctx)),
		)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return min(limit, MaxHistoryLimit)
}

func nonNil(entries []HistoryEntry) []HistoryEntry {
	if entries == nil {
		return []HistoryEntry{}
	}
	return entries
}
