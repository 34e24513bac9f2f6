package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memHistory struct {
	mu      sync.Mutex
	entries []HistoryEntry
	err     error
}

func (m *memHistory) Record(_ context.Context, entries []HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memHistory) Recent(_ context.Context, email string, limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []HistoryEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if email == "" || m.entries[i].Email == email {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memHistory) Search(_ context.Context, query string, limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []HistoryEntry
	for _, e := range m.entries {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(e.Filename+" "+e.Operation), strings.ToLower(query)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]User{}} }

func (m *memUsers) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrUserExists
	}
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func newTestService(opts ...ServiceOption) *Service {
	reg := NewRegistry()
	reg.Register("Convert Case", Func(strings.ToUpper))
	reg.Register("Broken", FuncErr(func(string) (string, error) { return "", errors.New("offline") }))
	d := NewDispatcher(reg, DispatcherConfig{})
	opts = append([]ServiceOption{WithPasswordCost(bcrypt.MinCost)}, opts...)
	return NewService(d, NewAnalyzeLimiter(2, time.Second), opts...)
}

func TestService_AnalyzePlainText(t *testing.T) {
	svc := newTestService()

	res, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Text:       "I love this product, it works great!",
		Operations: []string{"Convert Case", "Translate"},
	})
	require.NoError(t, err)

	assert.Equal(t, ResultSet{
		{Title: "Convert Case", Output: "I LOVE THIS PRODUCT, IT WORKS GREAT!", Success: true},
		{Title: "Translate", Output: "Processed Translate", Success: true},
	}, res.Results)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Stats.TotalChunks)
	assert.Zero(t, res.Stats.Failed)
	assert.False(t, res.Stats.Alert)
}

func TestService_AnalyzeTabular(t *testing.T) {
	svc := newTestService()

	res, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Text:       "id,text\n1,hello\n2,world",
		Operations: []string{"Convert Case", "Broken"},
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "HELLO WORLD", res.Results[0].Output)
	assert.False(t, res.Results[1].Success)
	assert.Equal(t, 2, res.Stats.TotalChunks)
	assert.Equal(t, 1, res.Stats.Failed)
	assert.True(t, res.Stats.Alert)
	assert.Equal(t, "text", res.Corpus.Column)
}

func TestService_AnalyzeRecordsHistory(t *testing.T) {
	hist := &memHistory{}
	svc := newTestService(WithHistory(hist))

	res, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Text:       "id,answer\n1,a\n2,b\n3,c",
		Operations: []string{"Convert Case", "Broken"},
	})
	require.NoError(t, err)

	require.Len(t, hist.entries, 2)
	for i, e := range hist.entries {
		assert.Equal(t, res.RunID, e.RunID)
		assert.Equal(t, DefaultEmail, e.Email)
		assert.Equal(t, DefaultFilename, e.Filename)
		assert.Equal(t, 3, e.RecordsProcessed)
		assert.Equal(t, res.Results[i].Title, e.Operation)
		assert.Equal(t, res.Results[i].Success, e.Success)
	}

	_, err = svc.Analyze(context.Background(), AnalyzeRequest{
		Text:       "x",
		Operations: []string{"Convert Case"},
		Email:      "  Ann@Example.com ",
		Filename:   "notes.txt",
	})
	require.NoError(t, err)

	recent, err := svc.RecentHistory(context.Background(), "ann@example.com", 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "notes.txt", recent[0].Filename)

	found, err := svc.SearchHistory(context.Background(), "NOTES", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestService_HistoryFailureIsNotFatal(t *testing.T) {
	svc := newTestService(WithHistory(&memHistory{err: errors.New("connection refused")}))

	res, err := svc.Analyze(context.Background(), AnalyzeRequest{Text: "a", Operations: []string{"Convert Case"}})
	require.NoError(t, err)
	assert.Equal(t, "A", res.Results[0].Output)
}

func TestService_HistoryWithoutStore(t *testing.T) {
	svc := newTestService()

	recent, err := svc.RecentHistory(context.Background(), "", 5)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)

	found, err := svc.SearchHistory(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestService_AnalyzeBusy(t *testing.T) {
	limiter := NewAnalyzeLimiter(1, 20*time.Millisecond)
	reg := NewRegistry()
	svc := NewService(NewDispatcher(reg, DispatcherConfig{}), limiter)

	require.True(t, limiter.TryAcquire())
	defer limiter.Release()

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{Text: "x"})
	assert.ErrorIs(t, err, ErrTooManyRequests)
}

func TestService_AnalyzeCancelled(t *testing.T) {
	svc := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, AnalyzeRequest{Text: "x", Operations: []string{"Convert Case"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_SignupLogin(t *testing.T) {
	svc := newTestService(WithUsers(newMemUsers()))
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, SignupRequest{Name: "Ann", Email: "Ann@Example.com", Password: "s3cret"}))

	err := svc.Signup(ctx, SignupRequest{Name: "Other", Email: "ann@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserExists)

	u, err := svc.Login(ctx, "ANN@example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	_, err = svc.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SignupValidation(t *testing.T) {
	svc := newTestService(WithUsers(newMemUsers()))

	err := svc.Signup(context.Background(), SignupRequest{Email: " ", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = svc.Signup(context.Background(), SignupRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_AccountsWithoutStore(t *testing.T) {
	svc := newTestService()

	assert.False(t, svc.PersistenceEnabled())
	assert.ErrorIs(t, svc.Signup(context.Background(), SignupRequest{Email: "a@b.c", Password: "x"}), ErrPersistenceDisabled)

	_, err := svc.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, ErrPersistenceDisabled)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultHistoryLimit, clampLimit(0))
	assert.Equal(t, DefaultHistoryLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxHistoryLimit, clampLimit(1000))
}

func TestContextWithClient(t *testing.T) {
	ctx := ContextWithClient(context.Background(), "10.0.0.1", "curl/8")
	assert.Equal(t, "10.0.0.1", IPAddressFromContext(ctx))
	assert.Equal(t, "curl/8", UserAgentFromContext(ctx))
	assert.Empty(t, IPAddressFromContext(context.Background()))
}
