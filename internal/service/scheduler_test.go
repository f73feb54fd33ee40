package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtester/internal/dto"
	"golang-backtester/pkg/logger"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.err
}

type fakeSweeper struct {
	items   []dto.SweepItem
	err     error
	reqs    []dto.SweepRequest
	started chan struct{}
	release chan struct{}
}

func (f *fakeSweeper) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeSweeper) RunSweep(ctx context.Context, req dto.SweepRequest) ([]dto.SweepItem, error) {
	f.reqs = append(f.reqs, req)
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	return f.items, f.err
}

func TestScheduler_Execute(t *testing.T) {
	repo := &fakePriceRepo{closes: map[string][]float64{
		"AAPL": crossover(),
		"FLAT": flat(60),
	}}
	cfg := testConfig()
	notifier := &fakeNotifier{}
	s := NewSchedulerService(cfg, logger.NewNop(), NewBacktestService(cfg, logger.NewNop(), repo), notifier)
	s.now = func() time.Time { return time.Date(2024, 6, 28, 18, 0, 0, 0, time.UTC) }

	require.NoError(t, s.Execute(context.Background()))

	require.Len(t, repo.calls, 3)
	for _, call := range repo.calls {
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), call.StartDate)
		assert.Equal(t, time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), call.EndDate)
	}

	require.Len(t, notifier.messages, 1)
	msg := notifier.messages[0]
	assert.Contains(t, msg, "*AAPL*")
	assert.Contains(t, msg, "*FLAT*")
	assert.Contains(t, msg, "⚠️ *MISSING*")
}

func TestScheduler_ExecuteSweepError(t *testing.T) {
	notifier := &fakeNotifier{}
	sweeper := &fakeSweeper{err: context.DeadlineExceeded}
	s := NewSchedulerService(testConfig(), logger.NewNop(), sweeper, notifier)

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "ERROR ALERT")
}

func TestScheduler_ExecuteNotifierError(t *testing.T) {
	sendErr := errors.New("telegram down")
	s := NewSchedulerService(testConfig(), logger.NewNop(), &fakeSweeper{}, &fakeNotifier{err: sendErr})

	assert.ErrorIs(t, s.Execute(context.Background()), sendErr)
}

func TestScheduler_ExecuteWithoutNotifier(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewSchedulerService(testConfig(), logger.NewNop(), sweeper, nil)

	require.NoError(t, s.Execute(context.Background()))
	require.Len(t, sweeper.reqs, 1)
	assert.Equal(t, []string{"AAPL", "FLAT", "MISSING"}, sweeper.reqs[0].Tickers)
}

func TestScheduler_ExecuteSkipsWhileRunning(t *testing.T) {
	sweeper := &fakeSweeper{started: make(chan struct{}), release: make(chan struct{})}
	s := NewSchedulerService(testConfig(), logger.NewNop(), sweeper, nil)

	done := make(chan error, 1)
	go func() { done <- s.Execute(context.Background()) }()
	<-sweeper.started

	assert.ErrorIs(t, s.Execute(context.Background()), ErrJobRunning)

	close(sweeper.release)
	assert.NoError(t, <-done)
}

func TestScheduler_Start(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Scheduler.Enabled = false
		s := NewSchedulerService(cfg, logger.NewNop(), &fakeSweeper{}, nil)

		require.NoError(t, s.Start(context.Background()))
		_, ok := s.NextRun()
		assert.False(t, ok)
	})

	t.Run("invalid expression", func(t *testing.T) {
		cfg := testConfig()
		cfg.Scheduler.CronExpression = "every day"
		s := NewSchedulerService(cfg, logger.NewNop(), &fakeSweeper{}, nil)

		assert.Error(t, s.Start(context.Background()))
	})

	t.Run("registers schedule", func(t *testing.T) {
		s := NewSchedulerService(testConfig(), logger.NewNop(), &fakeSweeper{}, nil)

		require.NoError(t, s.Start(context.Background()))
		defer s.Stop()

		next, ok := s.NextRun()
		require.True(t, ok)
		assert.Equal(t, 18, next.Hour())
		assert.NotEqual(t, time.Saturday, next.Weekday())
		assert.NotEqual(t, time.Sunday, next.Weekday())
	})
}
