package workflow

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/db/dbmock"
	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/internal/payment"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	userID   = "7d8c5a8e-2f3b-4c1d-9e6f-0a1b2c3d4e5f"
	pickupID = "3f2e1d0c-9b8a-4765-8432-10fedcba9876"
	rewardID = "0b1c2d3e-4f50-4617-8293-a4b5c6d7e8f9"
)

var fixedTime = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BroadcastUserPointsUpdate(userID string, points int64) error {
	args := m.Called(userID, points)
	return args.Error(0)
}

func (m *MockNotifier) BroadcastAchievementUnlocked(userID string, a db.Achievement) error {
	args := m.Called(userID, a)
	return args.Error(0)
}

func (m *MockNotifier) BroadcastLeaderboardUpdate(entries []db.LeaderboardEntry) error {
	args := m.Called(entries)
	return args.Error(0)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Settle(ctx context.Context, p db.Payment) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

type fixture struct {
	store    *dbmock.MockDBService
	notifier *MockNotifier
	gateway  *MockGateway
	svc      *Service
}

// newFixture runs post-commit evaluation inline so tests can assert on it.
func newFixture() *fixture {
	f := &fixture{
		store:    new(dbmock.MockDBService),
		notifier: new(MockNotifier),
		gateway:  new(MockGateway),
	}
	f.svc = NewService(f.store, f.notifier, f.gateway,
		WithClock(func() time.Time { return fixedTime }),
		WithDispatcher(func(fn func()) { fn() }),
		WithCodeGenerator(payment.NewCodeGeneratorWith(bytes.NewReader(make([]byte, 64)), func() time.Time { return fixedTime })),
		WithPaymentBatchSize(2),
		WithLeaderboardSize(3),
	)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.store.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

var (
	welcome = db.Achievement{ID: "a-welcome", Name: "Welcome Aboard"}
	firstKg = db.Achievement{ID: "a-10kg", Name: "Getting Started", Thresholds: points.Thresholds{WasteRequired: 10}}
	century = db.Achievement{ID: "a-100pts", Name: "Century", Thresholds: points.Thresholds{PointsRequired: 100, PickupsRequired: 50}}
	veteran = db.Achievement{ID: "a-veteran", Name: "Veteran", Thresholds: points.Thresholds{PickupsRequired: 25}}
)

func TestCompletePickup(t *testing.T) {
	t.Run("Completes, notifies and evaluates", func(t *testing.T) {
		f := newFixture()

		f.store.On("CompletePickup", mock.Anything, db.PickupCompletion{
			PickupID: pickupID, UserID: userID, BinCode: "BIN-001", Weight: 10.7, CollectedAt: fixedTime,
		}).Return(db.CompletedPickup{
			PickupID: pickupID, UserID: userID, Type: points.Plastic, Weight: 10.7, PointsEarned: 53, UserPoints: 153,
		}, nil).Once()
		f.notifier.On("BroadcastUserPointsUpdate", userID, int64(153)).Return(nil).Once()

		f.store.On("GetUserProgress", mock.Anything, userID).Return(db.UserProgress{
			UserID: userID, Level: points.DefaultLevel, Points: 153, WasteRecycled: 10.7, CompletedPickups: 1,
		}, nil).Once()
		f.store.On("SetUserLevel", mock.Anything, userID, "Eco Explorer").Return(true, nil).Once()
		f.store.On("ListActiveAchievements", mock.Anything).Return([]db.Achievement{welcome, firstKg, century, veteran}, nil).Once()
		f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{welcome.ID}, nil).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, firstKg.ID).Return(true, nil).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, century.ID).Return(true, nil).Once()
		f.notifier.On("BroadcastAchievementUnlocked", userID, firstKg).Return(nil).Once()
		f.notifier.On("BroadcastAchievementUnlocked", userID, century).Return(nil).Once()

		res, err := f.svc.CompletePickup(context.Background(), userID, pickupID, 10.7, " BIN-001 ")

		require.NoError(t, err)
		assert.Equal(t, PickupResult{PointsEarned: 53, Weight: 10.7}, res)
		f.store.AssertNotCalled(t, "GrantAchievement", mock.Anything, userID, veteran.ID)
		f.assertExpectations(t)
	})

	t.Run("Rejects invalid input before touching the store", func(t *testing.T) {
		testCases := []struct {
			name     string
			pickupID string
			weight   float64
			binCode  string
		}{
			{name: "Malformed id", pickupID: "42", weight: 5, binCode: "BIN-001"},
			{name: "Zero weight", pickupID: pickupID, weight: 0, binCode: "BIN-001"},
			{name: "Negative weight", pickupID: pickupID, weight: -1, binCode: "BIN-001"},
			{name: "Too heavy", pickupID: pickupID, weight: points.MaxWeight + 0.01, binCode: "BIN-001"},
			{name: "NaN weight", pickupID: pickupID, weight: math.NaN(), binCode: "BIN-001"},
			{name: "Weight rounds to zero", pickupID: pickupID, weight: 0.004, binCode: "BIN-001"},
			{name: "Missing bin", pickupID: pickupID, weight: 5, binCode: "  "},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture()

				_, err := f.svc.CompletePickup(context.Background(), userID, tc.pickupID, tc.weight, tc.binCode)

				var validation *errors.ValidationError
				assert.ErrorAs(t, err, &validation)
				f.store.AssertNotCalled(t, "CompletePickup", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Accepts the maximum weight", func(t *testing.T) {
		f := newFixture()
		f.store.On("CompletePickup", mock.Anything, mock.AnythingOfType("db.PickupCompletion")).
			Return(db.CompletedPickup{Type: points.EWaste, Weight: points.MaxWeight, PointsEarned: 15000, UserPoints: 15000}, nil).Once()
		f.notifier.On("BroadcastUserPointsUpdate", userID, int64(15000)).Return(nil).Once()
		f.store.On("GetUserProgress", mock.Anything, userID).Return(db.UserProgress{}, fmt.Errorf("boom")).Once()

		res, err := f.svc.CompletePickup(context.Background(), userID, pickupID, points.MaxWeight, "BIN-001")

		require.NoError(t, err)
		assert.Equal(t, int64(15000), res.PointsEarned)
		f.assertExpectations(t)
	})

	t.Run("Store conflict is returned and nothing else happens", func(t *testing.T) {
		f := newFixture()
		conflict := &errors.ConflictError{Resource: "pickup request", Message: "Pickup already completed"}
		f.store.On("CompletePickup", mock.Anything, mock.Anything).Return(db.CompletedPickup{}, conflict).Once()

		_, err := f.svc.CompletePickup(context.Background(), userID, pickupID, 5, "BIN-001")

		assert.Equal(t, conflict, err)
		f.notifier.AssertNotCalled(t, "BroadcastUserPointsUpdate", mock.Anything, mock.Anything)
		f.store.AssertNotCalled(t, "GetUserProgress", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Evaluator and broadcast failures never fail the request", func(t *testing.T) {
		f := newFixture()
		f.store.On("CompletePickup", mock.Anything, mock.Anything).
			Return(db.CompletedPickup{Type: points.Organic, PointsEarned: 6, UserPoints: 6}, nil).Once()
		f.notifier.On("BroadcastUserPointsUpdate", userID, int64(6)).Return(fmt.Errorf("no clients")).Once()
		f.store.On("GetUserProgress", mock.Anything, userID).
			Return(db.UserProgress{}, &errors.DatabaseError{Operation: "get user progress", Err: fmt.Errorf("timeout")}).Once()

		res, err := f.svc.CompletePickup(context.Background(), userID, pickupID, 2.3, "BIN-001")

		require.NoError(t, err)
		assert.Equal(t, int64(6), res.PointsEarned)
		f.assertExpectations(t)
	})

	t.Run("Evaluation runs detached from the request context", func(t *testing.T) {
		f := newFixture()
		var scheduled func()
		f.svc.dispatch = func(fn func()) { scheduled = fn }

		f.store.On("CompletePickup", mock.Anything, mock.Anything).
			Return(db.CompletedPickup{Type: points.Plastic, PointsEarned: 5, UserPoints: 5}, nil).Once()
		f.notifier.On("BroadcastUserPointsUpdate", userID, int64(5)).Return(nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		_, err := f.svc.CompletePickup(ctx, userID, pickupID, 1, "BIN-001")
		require.NoError(t, err)
		require.NotNil(t, scheduled)
		cancel()

		f.store.On("GetUserProgress", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), userID).
			Return(db.UserProgress{}, fmt.Errorf("stop here")).Once()
		scheduled()

		f.assertExpectations(t)
	})
	t.Run("Weight is rounded to stored precision", func(t *testing.T) {
		f := newFixture()
		f.store.On("CompletePickup", mock.Anything, db.PickupCompletion{
			PickupID: pickupID, UserID: userID, BinCode: "BIN-001", Weight: 2.4, CollectedAt: fixedTime,
		}).Return(db.CompletedPickup{Type: points.Plastic, Weight: 2.4, PointsEarned: 12, UserPoints: 12}, nil).Once()
		f.notifier.On("BroadcastUserPointsUpdate", userID, int64(12)).Return(nil).Once()
		f.store.On("GetUserProgress", mock.Anything, userID).Return(db.UserProgress{}, fmt.Errorf("stop here")).Once()

		res, err := f.svc.CompletePickup(context.Background(), userID, pickupID, 2.399, "BIN-001")

		require.NoError(t, err)
		assert.Equal(t, PickupResult{PointsEarned: 12, Weight: 2.4}, res)
		f.assertExpectations(t)
	})

	t.Run("Wait drains evaluations on the default dispatcher", func(t *testing.T) {
		store := new(dbmock.MockDBService)
		notifier := new(MockNotifier)
		svc := NewService(store, notifier, new(MockGateway))
		release := make(chan struct{})

		store.On("CompletePickup", mock.Anything, mock.Anything).
			Return(db.CompletedPickup{Type: points.Plastic, PointsEarned: 5, UserPoints: 5}, nil).Once()
		notifier.On("BroadcastUserPointsUpdate", userID, int64(5)).Return(nil).Once()
		store.On("GetUserProgress", mock.Anything, userID).
			Run(func(mock.Arguments) { <-release }).
			Return(db.UserProgress{}, fmt.Errorf("stop here")).Once()

		_, err := svc.CompletePickup(context.Background(), userID, pickupID, 1, "BIN-001")
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			svc.Wait()
			close(done)
		}()
		isDone := func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}

		assert.Never(t, isDone, 50*time.Millisecond, 5*time.Millisecond)
		close(release)
		assert.Eventually(t, isDone, time.Second, 5*time.Millisecond)
		store.AssertExpectations(t)
	})
}

func TestValidationMessages(t *testing.T) {
	testCases := []struct {
		name    string
		run     func(f *fixture) error
		field   string
		message string
	}{
		{
			name: "Email",
			run: func(f *fixture) error {
				_, err := f.svc.Register(context.Background(), Registration{Name: "Amina", Email: "nope", Phone: "+254712345678", Password: "secret1"}, plainHash)
				return err
			},
			message: "Please provide a valid email",
		},
		{
			name: "Profile name",
			run: func(f *fixture) error {
				_, err := f.svc.UpdateProfile(context.Background(), userID, " A ", nil)
				return err
			},
			message: "Name must be between 2 and 255 characters",
		},
		{
			name: "Pickup id",
			run: func(f *fixture) error {
				_, err := f.svc.CompletePickup(context.Background(), userID, "42", 1, "BIN-001")
				return err
			},
			field:   "pickup id",
			message: "must be a valid UUID",
		},
		{
			name: "Weight",
			run: func(f *fixture) error {
				_, err := f.svc.CompletePickup(context.Background(), userID, pickupID, 1000.01, "BIN-001")
				return err
			},
			message: "Weight must be between 0 and 1000 kg",
		},
		{
			name: "Latitude",
			run: func(f *fixture) error {
				_, err := f.svc.CreatePickup(context.Background(), userID, PickupInput{Type: "Plastic", LocationLat: ptr(-91.0)})
				return err
			},
			message: "Latitude must be between -90 and 90",
		},
		{
			name: "Payment amount",
			run: func(f *fixture) error {
				_, err := f.svc.QueuePayment(context.Background(), db.NewPayment{CollectorID: pickupID, Amount: -5})
				return err
			},
			message: "Amount must be greater than 0",
		},
		{
			name: "Reward id",
			run: func(f *fixture) error {
				_, err := f.svc.RedeemReward(context.Background(), userID, "reward-1")
				return err
			},
			field:   "reward id",
			message: "must be a valid UUID",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run(newFixture())

			var validation *errors.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
			assert.Equal(t, tc.message, validation.Message)
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("Unconditional achievements are granted on first run only", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetUserProgress", mock.Anything, userID).
			Return(db.UserProgress{UserID: userID, Level: points.DefaultLevel}, nil).Twice()
		f.store.On("ListActiveAchievements", mock.Anything).Return([]db.Achievement{welcome, firstKg}, nil).Twice()
		f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{}, nil).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, welcome.ID).Return(true, nil).Once()
		f.notifier.On("BroadcastAchievementUnlocked", userID, welcome).Return(nil).Once()

		ev := f.svc.Evaluate(context.Background(), userID)
		assert.Equal(t, []db.Achievement{welcome}, ev.Granted)
		assert.False(t, ev.LevelChanged)

		f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{welcome.ID}, nil).Once()

		ev = f.svc.Evaluate(context.Background(), userID)
		assert.Empty(t, ev.Granted)
		f.assertExpectations(t)
	})

	t.Run("Lost insert race is not reported as granted", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetUserProgress", mock.Anything, userID).
			Return(db.UserProgress{UserID: userID, Level: "Eco Explorer", Points: 150}, nil).Once()
		f.store.On("ListActiveAchievements", mock.Anything).Return([]db.Achievement{century}, nil).Once()
		f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{}, nil).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, century.ID).Return(false, nil).Once()

		ev := f.svc.Evaluate(context.Background(), userID)

		assert.Empty(t, ev.Granted)
		assert.Equal(t, "Eco Explorer", ev.Level)
		f.store.AssertNotCalled(t, "SetUserLevel", mock.Anything, mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "BroadcastAchievementUnlocked", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("A failed grant does not stop the others", func(t *testing.T) {
		f := newFixture()
		f.store.On("GetUserProgress", mock.Anything, userID).
			Return(db.UserProgress{UserID: userID, Level: "Eco Beginner", Points: 2500, WasteRecycled: 300, CompletedPickups: 30}, nil).Once()
		f.store.On("SetUserLevel", mock.Anything, userID, "Eco Master").Return(false, fmt.Errorf("deadlock")).Once()
		f.store.On("ListActiveAchievements", mock.Anything).Return([]db.Achievement{century, veteran}, nil).Once()
		f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{}, nil).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, century.ID).Return(false, fmt.Errorf("deadlock")).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, veteran.ID).Return(true, nil).Once()
		f.notifier.On("BroadcastAchievementUnlocked", userID, veteran).Return(fmt.Errorf("no clients")).Once()

		ev := f.svc.Evaluate(context.Background(), userID)

		assert.Equal(t, []db.Achievement{veteran}, ev.Granted)
		assert.Equal(t, "Eco Master", ev.Level)
		assert.False(t, ev.LevelChanged)
		f.assertExpectations(t)
	})
}

func TestRedeemReward(t *testing.T) {
	t.Run("Redeems with a fresh code", func(t *testing.T) {
		f := newFixture()
		wantCode := fmt.Sprintf("RDM%d00000", fixedTime.UnixMilli())
		f.store.On("RedeemReward", mock.Anything, db.RedemptionRequest{
			UserID: userID, RewardID: rewardID, Code: wantCode, RedeemedAt: fixedTime,
		}).Return(db.Redemption{ID: "rr-1", RewardName: "Airtime 50", PointsSpent: 100, RedemptionCode: wantCode}, nil).Once()

		res, err := f.svc.RedeemReward(context.Background(), userID, rewardID)

		require.NoError(t, err)
		assert.Equal(t, RedemptionResult{RedemptionCode: wantCode, PointsSpent: 100}, res)
		f.assertExpectations(t)
	})

	t.Run("Malformed reward id", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.RedeemReward(context.Background(), userID, "not-a-uuid")

		var validation *errors.ValidationError
		assert.ErrorAs(t, err, &validation)
		f.store.AssertNotCalled(t, "RedeemReward", mock.Anything, mock.Anything)
	})

	t.Run("Insufficient points passes through", func(t *testing.T) {
		f := newFixture()
		conflict := &errors.ConflictError{Resource: "user", Message: "Insufficient points"}
		f.store.On("RedeemReward", mock.Anything, mock.Anything).Return(db.Redemption{}, conflict).Once()

		_, err := f.svc.RedeemReward(context.Background(), userID, rewardID)

		assert.Equal(t, conflict, err)
		f.assertExpectations(t)
	})
}

func TestSettlePendingPayments(t *testing.T) {
	okPay := db.Payment{ID: "pay-1", Amount: 500, PhoneNumber: "+254712345678"}
	badPay := db.Payment{ID: "pay-2", Amount: 200, PhoneNumber: ""}

	t.Run("Each payment is settled independently", func(t *testing.T) {
		f := newFixture()
		gatewayErr := &errors.PaymentError{PaymentID: badPay.ID, Err: fmt.Errorf("no phone number on record")}

		f.store.On("ListPendingPayments", mock.Anything, 2).Return([]db.Payment{okPay, badPay}, nil).Once()
		f.gateway.On("Settle", mock.Anything, okPay).Return("MP1700000000000ABCDE", nil).Once()
		f.gateway.On("Settle", mock.Anything, badPay).Return("", gatewayErr).Once()
		f.store.On("CompletePayment", mock.Anything, okPay.ID, "MP1700000000000ABCDE", fixedTime).Return(nil).Once()
		f.store.On("FailPayment", mock.Anything, badPay.ID, fixedTime).Return(nil).Once()

		report, err := f.svc.SettlePendingPayments(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Completed)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, []SettlementResult{
			{PaymentID: okPay.ID, Outcome: db.StatusCompleted, TransactionID: "MP1700000000000ABCDE"},
			{PaymentID: badPay.ID, Outcome: db.StatusFailed, Err: gatewayErr},
		}, report.Results)
		f.assertExpectations(t)
	})

	t.Run("A failed status write is reported and the sweep continues", func(t *testing.T) {
		f := newFixture()
		writeErr := &errors.DatabaseError{Operation: "complete payment", Err: fmt.Errorf("connection reset")}

		f.store.On("ListPendingPayments", mock.Anything, 2).Return([]db.Payment{okPay, badPay}, nil).Once()
		f.gateway.On("Settle", mock.Anything, okPay).Return("MP1", nil).Once()
		f.store.On("CompletePayment", mock.Anything, okPay.ID, "MP1", fixedTime).Return(writeErr).Once()
		f.gateway.On("Settle", mock.Anything, badPay).Return("", fmt.Errorf("declined")).Once()
		f.store.On("FailPayment", mock.Anything, badPay.ID, fixedTime).Return(writeErr).Once()

		report, err := f.svc.SettlePendingPayments(context.Background())

		require.NoError(t, err)
		assert.Zero(t, report.Completed)
		assert.Zero(t, report.Failed)
		require.Len(t, report.Results, 2)
		assert.Empty(t, report.Results[0].Outcome)
		assert.Equal(t, "MP1", report.Results[0].TransactionID)
		assert.Equal(t, writeErr, report.Results[0].Err)
		assert.Equal(t, writeErr, report.Results[1].Err)
		f.assertExpectations(t)
	})

	t.Run("Listing failure aborts the sweep", func(t *testing.T) {
		f := newFixture()
		f.store.On("ListPendingPayments", mock.Anything, 2).Return([]db.Payment{}, fmt.Errorf("db down")).Once()

		_, err := f.svc.SettlePendingPayments(context.Background())

		assert.Error(t, err)
		f.gateway.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything)
	})

	t.Run("Empty batch", func(t *testing.T) {
		f := newFixture()
		f.store.On("ListPendingPayments", mock.Anything, 2).Return([]db.Payment{}, nil).Once()

		report, err := f.svc.SettlePendingPayments(context.Background())

		require.NoError(t, err)
		assert.Empty(t, report.Results)
	})
}

func TestQueuePayment(t *testing.T) {
	collectorID := "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"

	t.Run("Queues a pending payment", func(t *testing.T) {
		f := newFixture()
		req := db.NewPayment{CollectorID: collectorID, Amount: 750}
		created := db.Payment{ID: "pay-9", CollectorID: collectorID, Amount: 750, Status: db.StatusPending}
		f.store.On("CreatePayment", mock.Anything, req).Return(created, nil).Once()

		got, err := f.svc.QueuePayment(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, created, got)
		f.assertExpectations(t)
	})

	testCases := []struct {
		name string
		req  db.NewPayment
	}{
		{name: "Bad collector id", req: db.NewPayment{CollectorID: "nope", Amount: 10}},
		{name: "Zero amount", req: db.NewPayment{CollectorID: collectorID}},
		{name: "Bad phone", req: db.NewPayment{CollectorID: collectorID, Amount: 10, PhoneNumber: "0712345678"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.QueuePayment(context.Background(), tc.req)

			var validationErr *errors.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			f.store.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
		})
	}
}

func TestRefreshLeaderboard(t *testing.T) {
	f := newFixture()
	entries := []db.LeaderboardEntry{{ID: userID, Name: "Amina", Points: 900, Rank: 1}}

	f.store.On("ListActiveUserIDs", mock.Anything).Return([]string{userID}, nil).Once()
	f.store.On("GetUserProgress", mock.Anything, userID).
		Return(db.UserProgress{UserID: userID, Level: "Eco Warrior", Points: 900}, nil).Once()
	f.store.On("ListActiveAchievements", mock.Anything).Return([]db.Achievement{}, nil).Once()
	f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{}, nil).Once()
	f.store.On("GetLeaderboard", mock.Anything, 3).Return(entries, nil).Once()
	f.notifier.On("BroadcastLeaderboardUpdate", entries).Return(nil).Once()

	got, err := f.svc.RefreshLeaderboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	f.assertExpectations(t)
}

func plainHash(p string) (string, error) { return "hashed:" + p, nil }

func TestRegister(t *testing.T) {
	valid := Registration{Name: " Amina ", Email: "Amina@Example.com", Phone: "+254712345678", Password: "secret1"}

	t.Run("Creates the user and grants welcome achievements", func(t *testing.T) {
		f := newFixture()
		user := db.User{ID: userID, Name: "Amina", Email: "amina@example.com", Level: points.DefaultLevel}

		f.store.On("CreateUser", mock.Anything, db.NewUser{
			Name: "Amina", Email: "amina@example.com", Phone: "+254712345678", PasswordHash: "hashed:secret1", Role: db.RoleUser,
		}).Return(user, nil).Once()
		f.store.On("GetUserProgress", mock.Anything, userID).
			Return(db.UserProgress{UserID: userID, Level: points.DefaultLevel}, nil).Once()
		f.store.On("ListActiveAchievements", mock.Anything).Return([]db.Achievement{welcome, firstKg}, nil).Once()
		f.store.On("ListEarnedAchievementIDs", mock.Anything, userID).Return([]string{}, nil).Once()
		f.store.On("GrantAchievement", mock.Anything, userID, welcome.ID).Return(true, nil).Once()
		f.notifier.On("BroadcastAchievementUnlocked", userID, welcome).Return(nil).Once()

		got, err := f.svc.Register(context.Background(), valid, plainHash)

		require.NoError(t, err)
		assert.Equal(t, user, got)
		f.assertExpectations(t)
	})

	testCases := []struct {
		name   string
		mutate func(r *Registration)
	}{
		{name: "Short name", mutate: func(r *Registration) { r.Name = "A" }},
		{name: "Bad email", mutate: func(r *Registration) { r.Email = "not-an-email" }},
		{name: "Foreign phone", mutate: func(r *Registration) { r.Phone = "+14155550100" }},
		{name: "Short password", mutate: func(r *Registration) { r.Password = "12345" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			r := valid
			tc.mutate(&r)

			_, err := f.svc.Register(context.Background(), r, plainHash)

			var validation *errors.ValidationError
			assert.ErrorAs(t, err, &validation)
			f.store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	bad := "0712345678"

	_, err := f.svc.UpdateProfile(context.Background(), userID, "Amina", &bad)
	var validation *errors.ValidationError
	assert.ErrorAs(t, err, &validation)

	f.store.On("UpdateProfile", mock.Anything, userID, "Amina W", (*string)(nil)).Return(db.User{ID: userID, Name: "Amina W"}, nil).Once()
	u, err := f.svc.UpdateProfile(context.Background(), userID, "  Amina W ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Amina W", u.Name)
	f.assertExpectations(t)
}

func TestCreatePickup(t *testing.T) {
	lat, badLng := -1.2921, 200.0

	t.Run("Valid request", func(t *testing.T) {
		f := newFixture()
		f.store.On("CreatePickup", mock.Anything, db.NewPickup{UserID: userID, Type: points.EWaste, LocationLat: &lat}).
			Return(db.PickupRequest{ID: pickupID, Type: "E-waste", Status: db.PickupPending}, nil).Once()

		p, err := f.svc.CreatePickup(context.Background(), userID, PickupInput{Type: "E-waste", LocationLat: &lat})

		require.NoError(t, err)
		assert.Equal(t, db.PickupPending, p.Status)
		f.assertExpectations(t)
	})

	for name, in := range map[string]PickupInput{
		"Unknown type":  {Type: "Glass"},
		"Bad longitude": {Type: "Plastic", LocationLng: &badLng},
		"Long notes":    {Type: "Plastic", Notes: ptr(string(make([]byte, 1001)))},
		"Long address":  {Type: "Organic", LocationAddress: ptr(string(make([]byte, 501)))},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.CreatePickup(context.Background(), userID, in)

			var validation *errors.ValidationError
			assert.ErrorAs(t, err, &validation)
			f.store.AssertNotCalled(t, "CreatePickup", mock.Anything, mock.Anything)
		})
	}
}

func ptr[T any](v T) *T { return &v }
