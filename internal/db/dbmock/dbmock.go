// Package dbmock provides a testify mock of db.DBService.
package dbmock

import (
	"context"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/stretchr/testify/mock"
)

type MockDBService struct {
	mock.Mock
}

var _ db.DBService = (*MockDBService)(nil)

func (m *MockDBService) CreateUser(ctx context.Context, u db.NewUser) (db.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(db.User), args.Error(1)
}

func (m *MockDBService) GetUserByID(ctx context.Context, id string) (db.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.User), args.Error(1)
}

func (m *MockDBService) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(db.User), args.Error(1)
}

func (m *MockDBService) UpdateProfile(ctx context.Context, id, name string, phone *string) (db.User, error) {
	args := m.Called(ctx, id, name, phone)
	return args.Get(0).(db.User), args.Error(1)
}

func (m *MockDBService) CompleteOnboarding(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDBService) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDBService) GetUserProgress(ctx context.Context, id string) (db.UserProgress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.UserProgress), args.Error(1)
}

func (m *MockDBService) SetUserLevel(ctx context.Context, id, level string) (bool, error) {
	args := m.Called(ctx, id, level)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBService) GetMonthlyStats(ctx context.Context, id string) ([]db.MonthlyStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]db.MonthlyStats), args.Error(1)
}

func (m *MockDBService) GetLeaderboardPosition(ctx context.Context, id string) (db.LeaderboardPosition, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.LeaderboardPosition), args.Error(1)
}

func (m *MockDBService) GetLeaderboard(ctx context.Context, limit int) ([]db.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.LeaderboardEntry), args.Error(1)
}

func (m *MockDBService) ListActiveAchievements(ctx context.Context) ([]db.Achievement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Achievement), args.Error(1)
}

func (m *MockDBService) ListEarnedAchievementIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDBService) GrantAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	args := m.Called(ctx, userID, achievementID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBService) ListUserAchievements(ctx context.Context, userID string) ([]db.UserAchievement, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.UserAchievement), args.Error(1)
}

func (m *MockDBService) CreatePickup(ctx context.Context, p db.NewPickup) (db.PickupRequest, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(db.PickupRequest), args.Error(1)
}

func (m *MockDBService) ListPickups(ctx context.Context, userID string, f db.PickupFilter) ([]db.PickupRequest, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).([]db.PickupRequest), args.Error(1)
}

func (m *MockDBService) GetPickupStats(ctx context.Context, userID string) (db.PickupStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(db.PickupStats), args.Error(1)
}

func (m *MockDBService) CompletePickup(ctx context.Context, c db.PickupCompletion) (db.CompletedPickup, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(db.CompletedPickup), args.Error(1)
}

func (m *MockDBService) ListAvailableRewards(ctx context.Context) ([]db.Reward, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Reward), args.Error(1)
}

func (m *MockDBService) RedeemReward(ctx context.Context, r db.RedemptionRequest) (db.Redemption, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(db.Redemption), args.Error(1)
}

func (m *MockDBService) ListRedemptions(ctx context.Context, userID string) ([]db.Redemption, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]db.Redemption), args.Error(1)
}

func (m *MockDBService) GetBin(ctx context.Context, binCode string) (db.QRBin, error) {
	args := m.Called(ctx, binCode)
	return args.Get(0).(db.QRBin), args.Error(1)
}

func (m *MockDBService) ListActiveBins(ctx context.Context, near *db.GeoFilter) ([]db.QRBin, error) {
	args := m.Called(ctx, near)
	return args.Get(0).([]db.QRBin), args.Error(1)
}

func (m *MockDBService) CreatePayment(ctx context.Context, p db.NewPayment) (db.Payment, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(db.Payment), args.Error(1)
}

func (m *MockDBService) ListPendingPayments(ctx context.Context, limit int) ([]db.Payment, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.Payment), args.Error(1)
}

func (m *MockDBService) CompletePayment(ctx context.Context, id, transactionID string, at time.Time) error {
	args := m.Called(ctx, id, transactionID, at)
	return args.Error(0)
}

func (m *MockDBService) FailPayment(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockDBService) GetDashboardStats(ctx context.Context) (db.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(db.DashboardStats), args.Error(1)
}

func (m *MockDBService) GetWasteTrends(ctx context.Context, since time.Time) ([]db.WasteTrend, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]db.WasteTrend), args.Error(1)
}

func (m *MockDBService) GetRecentActivity(ctx context.Context, limit int) ([]db.PickupActivity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]db.PickupActivity), args.Error(1)
}

func (m *MockDBService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBService) Close() error {
	args := m.Called()
	return args.Error(0)
}
