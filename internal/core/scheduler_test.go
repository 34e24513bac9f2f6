package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pruningHistory struct {
	memHistory
	mu      sync.Mutex
	cutoffs []time.Time
	batch   int
	err     error
}

func (p *pruningHistory) Prune(_ context.Context, cutoff time.Time, batchSize int) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	p.batch = batchSize
	return 3, p.err
}

func (p *pruningHistory) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestRetentionScheduler_RunsAndStops(t *testing.T) {
	hist := &pruningHistory{}
	svc := newTestService(WithHistory(hist))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartRetentionScheduler(ctx, RetentionConfig{RetentionDays: 7, CheckInterval: 20 * time.Millisecond})
		close(done)
	}()

	require.Eventually(t, func() bool { return hist.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	hist.mu.Lock()
	defer hist.mu.Unlock()
	assert.Equal(t, defaultPruneBatchSize, hist.batch)
	want := time.Now().UTC().AddDate(0, 0, -7)
	assert.WithinDuration(t, want, hist.cutoffs[0], 5*time.Second)
}

func TestRetentionScheduler_ErrorsKeepRunning(t *testing.T) {
	hist := &pruningHistory{err: errors.New("connection refused")}
	svc := newTestService(WithHistory(hist))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.StartRetentionScheduler(ctx, RetentionConfig{RetentionDays: 1, BatchSize: 10, CheckInterval: 10 * time.Millisecond})

	require.Eventually(t, func() bool { return hist.calls() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRetentionScheduler_Disabled(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
		cfg  RetentionConfig
	}{
		{"no store", newTestService(), RetentionConfig{RetentionDays: 7}},
		{"store cannot prune", newTestService(WithHistory(&memHistory{})), RetentionConfig{RetentionDays: 7}},
		{"zero days", newTestService(WithHistory(&pruningHistory{})), RetentionConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{})
			go func() {
				tt.svc.StartRetentionScheduler(context.Background(), tt.cfg)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("disabled scheduler should return immediately")
			}
		})
	}
}
