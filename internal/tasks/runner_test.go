package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/config"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSweeper is a mock implementation of Sweeper
type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) RefreshLeaderboard(ctx context.Context) ([]db.LeaderboardEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.LeaderboardEntry), args.Error(1)
}

func (m *MockSweeper) SettlePendingPayments(ctx context.Context) (workflow.SettlementReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(workflow.SettlementReport), args.Error(1)
}

var _ Sweeper = (*workflow.Service)(nil)

func TestRunnerRunsJobsUntilCancelled(t *testing.T) {
	var runs, failures atomic.Int32
	runner := NewRunner(
		Job{Name: "counter", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
			runs.Add(1)
			return nil
		}},
		Job{Name: "failing", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
			failures.Add(1)
			return fmt.Errorf("always fails")
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return failures.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	runner.Wait()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no runs after cancellation")
}

func TestRunnerSkipsUnscheduledJobs(t *testing.T) {
	called := false
	runner := NewRunner(Job{Name: "never", Run: func(context.Context) error {
		called = true
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)
	cancel()
	runner.Wait()

	assert.False(t, called)
}

func TestScheduled(t *testing.T) {
	sweeper := new(MockSweeper)
	cfg := config.TasksConfig{LeaderboardInterval: time.Hour, PaymentInterval: 24 * time.Hour}

	jobs := Scheduled(sweeper, cfg)
	require.Len(t, jobs, 2)
	assert.Equal(t, time.Hour, jobs[0].Interval)
	assert.Equal(t, 24*time.Hour, jobs[1].Interval)

	t.Run("Leaderboard refresh", func(t *testing.T) {
		sweeper.On("RefreshLeaderboard", mock.Anything).Return([]db.LeaderboardEntry{}, nil).Once()
		assert.NoError(t, jobs[0].Run(context.Background()))
	})

	t.Run("Partial settlement is not a job failure", func(t *testing.T) {
		sweeper.On("SettlePendingPayments", mock.Anything).Return(workflow.SettlementReport{
			Completed: 1,
			Failed:    1,
			Results:   []workflow.SettlementResult{{PaymentID: "p1"}, {PaymentID: "p2"}},
		}, nil).Once()
		assert.NoError(t, jobs[1].Run(context.Background()))
	})

	t.Run("Listing failure is reported", func(t *testing.T) {
		sweeper.On("SettlePendingPayments", mock.Anything).Return(workflow.SettlementReport{}, fmt.Errorf("db down")).Once()
		assert.Error(t, jobs[1].Run(context.Background()))
	})

	sweeper.AssertExpectations(t)
}
