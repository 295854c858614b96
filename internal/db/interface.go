package db

import (
	"context"
	"time"
)

// DBService interface defines the methods we need from the database
type DBService interface {
	// Users
	CreateUser(ctx context.Context, u NewUser) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, id, name string, phone *string) (User, error)
	CompleteOnboarding(ctx context.Context, id string) error
	ListActiveUserIDs(ctx context.Context) ([]string, error)
	GetUserProgress(ctx context.Context, id string) (UserProgress, error)
	SetUserLevel(ctx context.Context, id, level string) (bool, error)
	GetMonthlyStats(ctx context.Context, id string) ([]MonthlyStats, error)
	GetLeaderboardPosition(ctx context.Context, id string) (LeaderboardPosition, error)
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Achievements
	ListActiveAchievements(ctx context.Context) ([]Achievement, error)
	ListEarnedAchievementIDs(ctx context.Context, userID string) ([]string, error)
	GrantAchievement(ctx context.Context, userID, achievementID string) (bool, error)
	ListUserAchievements(ctx context.Context, userID string) ([]UserAchievement, error)

	// Pickups
	CreatePickup(ctx context.Context, p NewPickup) (PickupRequest, error)
	ListPickups(ctx context.Context, userID string, f PickupFilter) ([]PickupRequest, error)
	GetPickupStats(ctx context.Context, userID string) (PickupStats, error)
	CompletePickup(ctx context.Context, c PickupCompletion) (CompletedPickup, error)

	// Rewards
	ListAvailableRewards(ctx context.Context) ([]Reward, error)
	RedeemReward(ctx context.Context, r RedemptionRequest) (Redemption, error)
	ListRedemptions(ctx context.Context, userID string) ([]Redemption, error)

	// Bins
	GetBin(ctx context.Context, binCode string) (QRBin, error)
	ListActiveBins(ctx context.Context, near *GeoFilter) ([]QRBin, error)

	// Payments
	CreatePayment(ctx context.Context, p NewPayment) (Payment, error)
	ListPendingPayments(ctx context.Context, limit int) ([]Payment, error)
	CompletePayment(ctx context.Context, id, transactionID string, at time.Time) error
	FailPayment(ctx context.Context, id string, at time.Time) error

	// Admin
	GetDashboardStats(ctx context.Context) (DashboardStats, error)
	GetWasteTrends(ctx context.Context, since time.Time) ([]WasteTrend, error)
	GetRecentActivity(ctx context.Context, limit int) ([]PickupActivity, error)

	Ping(ctx context.Context) error
	Close() error
}

// Seeder loads catalog rows, leaving existing rows untouched.
type Seeder interface {
	SeedAchievement(ctx context.Context, a Achievement) (bool, error)
	SeedReward(ctx context.Context, r Reward) (bool, error)
	SeedBin(ctx context.Context, b QRBin) (bool, error)
}
