// Package workflow holds the multi-step business operations: pickup
// completion, achievement evaluation, reward redemption, payment settlement
// and leaderboard refresh.
package workflow

import (
	"sync"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/payment"
)

const (
	DefaultPaymentBatchSize = 50
	DefaultLeaderboardSize  = 10

	// evaluationTimeout bounds a detached evaluator run.
	evaluationTimeout = 30 * time.Second
)

// Notifier pushes state changes to connected clients. Delivery is best-effort.
type Notifier interface {
	BroadcastUserPointsUpdate(userID string, points int64) error
	BroadcastAchievementUnlocked(userID string, achievement db.Achievement) error
	BroadcastLeaderboardUpdate(entries []db.LeaderboardEntry) error
}

type Service struct {
	store           db.DBService
	notifier        Notifier
	gateway         payment.Gateway
	codes           *payment.CodeGenerator
	now             func() time.Time
	dispatch        func(func())
	inflight        sync.WaitGroup
	batchSize       int
	leaderboardSize int
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDispatcher controls how post-commit evaluation is scheduled. The
// default runs it on a new goroutine tracked by Wait.
func WithDispatcher(dispatch func(func())) Option {
	return func(s *Service) { s.dispatch = dispatch }
}

func WithCodeGenerator(codes *payment.CodeGenerator) Option {
	return func(s *Service) { s.codes = codes }
}

func WithPaymentBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func WithLeaderboardSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

func NewService(store db.DBService, notifier Notifier, gateway payment.Gateway, opts ...Option) *Service {
	s := &Service{
		store:           store,
		notifier:        notifier,
		gateway:         gateway,
		codes:           payment.NewCodeGenerator(),
		now:             time.Now,
		batchSize:       DefaultPaymentBatchSize,
		leaderboardSize: DefaultLeaderboardSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatch == nil {
		s.dispatch = s.goTracked
	}
	return s
}

func (s *Service) goTracked(f func()) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		f()
	}()
}

// Wait blocks until every evaluation started on the default dispatcher has
// finished. Call it after the server stops accepting requests and before the
// store is closed.
func (s *Service) Wait() {
	s.inflight.Wait()
}
