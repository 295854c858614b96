package db

import (
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/points"
)

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleCollector = "collector"
)

// Pickup request statuses. Requests move forward only.
const (
	PickupPending    = "Pending"
	PickupAssigned   = "Assigned"
	PickupInProgress = "In Progress"
	PickupCollected  = "Collected"
	PickupCompleted  = "Completed"
	PickupCancelled  = "Cancelled"
)

// Statuses shared by redemptions and payments.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// UnlimitedStock is the stock_quantity sentinel for rewards that never run out.
const UnlimitedStock = -1

const BinActive = "Active"

type User struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	PasswordHash           string    `json:"-"`
	Role                   string    `json:"role"`
	Points                 int64     `json:"points"`
	TotalWasteRecycled     float64   `json:"totalWasteRecycled"`
	Level                  string    `json:"level"`
	HasCompletedOnboarding bool      `json:"hasCompletedOnboarding"`
	IsActive               bool      `json:"-"`
	CreatedAt              time.Time `json:"joinedDate"`
}

type NewUser struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
}

// UserProgress is what the leveling and achievement rules are evaluated on.
type UserProgress struct {
	UserID           string
	Level            string
	Points           int64
	WasteRecycled    float64
	CompletedPickups int64
}

func (p UserProgress) Rules() points.Progress {
	return points.Progress{
		Points:           p.Points,
		WasteRecycled:    p.WasteRecycled,
		CompletedPickups: p.CompletedPickups,
	}
}

type PickupRequest struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	CollectorName   *string    `json:"collectorName"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	Weight          *float64   `json:"weight"`
	PointsEarned    *int64     `json:"pointsEarned"`
	LocationLat     *float64   `json:"locationLat"`
	LocationLng     *float64   `json:"locationLng"`
	LocationAddress *string    `json:"locationAddress"`
	Notes           *string    `json:"notes"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	CollectedAt     *time.Time `json:"collectedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type NewPickup struct {
	UserID          string
	Type            points.WasteType
	LocationLat     *float64
	LocationLng     *float64
	LocationAddress *string
	Notes           *string
	ScheduledAt     *time.Time
}

type PickupFilter struct {
	Status string
	Limit  int
	Offset int
}

type PickupStats struct {
	TotalPickups           int64   `json:"totalPickups"`
	CompletedPickups       int64   `json:"completedPickups"`
	PendingPickups         int64   `json:"pendingPickups"`
	TotalWeight            float64 `json:"totalWeight"`
	TotalPointsFromPickups int64   `json:"totalPointsFromPickups"`
}

// PickupCompletion is a validated request to complete a pickup.
type PickupCompletion struct {
	PickupID    string
	UserID      string
	BinCode     string
	Weight      float64
	CollectedAt time.Time
}

type CompletedPickup struct {
	PickupID     string
	UserID       string
	Type         points.WasteType
	Weight       float64
	PointsEarned int64
	UserPoints   int64
}

type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Thresholds  points.Thresholds
}

type UserAchievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earnedAt"`
}

type MonthlyStats struct {
	Month       string  `json:"month"`
	Year        int     `json:"year"`
	Plastic     float64 `json:"plastic"`
	Organic     float64 `json:"organic"`
	EWaste      float64 `json:"ewaste"`
	TotalPoints int64   `json:"totalPoints"`
}

type LeaderboardPosition struct {
	Rank               int64   `json:"rank"`
	Points             int64   `json:"points"`
	TotalWasteRecycled float64 `json:"totalWasteRecycled"`
}

type LeaderboardEntry struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Points             int64   `json:"points"`
	TotalWasteRecycled float64 `json:"totalWasteRecycled"`
	TotalPickups       int64   `json:"totalPickups"`
	Rank               int64   `json:"rank"`
}

type Reward struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	PointsCost    int64   `json:"pointsCost"`
	ValueKes      float64 `json:"valueKes"`
	StockQuantity int64   `json:"-"`
	Available     bool    `json:"available"`
}

type RedemptionRequest struct {
	UserID     string
	RewardID   string
	Code       string
	RedeemedAt time.Time
}

type Redemption struct {
	ID                string     `json:"id"`
	RewardName        string     `json:"rewardName"`
	RewardDescription string     `json:"rewardDescription"`
	PointsSpent       int64      `json:"pointsSpent"`
	Status            string     `json:"status"`
	RedemptionCode    string     `json:"redemptionCode"`
	RedeemedAt        time.Time  `json:"redeemedAt"`
	ProcessedAt       *time.Time `json:"processedAt"`
}

type QRBin struct {
	ID              string     `json:"id"`
	BinCode         string     `json:"binCode"`
	LocationName    string     `json:"locationName"`
	LocationAddress *string    `json:"locationAddress"`
	BinType         *string    `json:"binType"`
	Status          string     `json:"status"`
	LocationLat     *float64   `json:"locationLat,omitempty"`
	LocationLng     *float64   `json:"locationLng,omitempty"`
	LastScanAt      *time.Time `json:"lastScanAt"`
}

// GeoFilter restricts a bin search to a radius around a point.
type GeoFilter struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

type Payment struct {
	ID            string     `json:"id"`
	CollectorID   string     `json:"collectorId"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	PhoneNumber   string     `json:"phoneNumber"`
	TransactionID *string    `json:"transactionId"`
	Status        string     `json:"status"`
	ProcessedAt   *time.Time `json:"processedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type NewPayment struct {
	CollectorID string
	Amount      float64
	PhoneNumber string
}

type DashboardStats struct {
	TotalWasteCollected float64 `json:"totalWasteCollected"`
	ActiveUsers         int64   `json:"activeUsers"`
	TotalPickups        int64   `json:"totalPickups"`
	ActivePickups       int64   `json:"activePickups"`
	Revenue             float64 `json:"revenue"`
}

type WasteTrend struct {
	Month   string  `json:"month"`
	Plastic float64 `json:"plastic"`
	Organic float64 `json:"organic"`
	EWaste  float64 `json:"ewaste"`
}

type PickupActivity struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Weight        *float64   `json:"weight"`
	PointsEarned  *int64     `json:"pointsEarned"`
	UserName      string     `json:"userName"`
	CollectorName *string    `json:"collectorName"`
	CreatedAt     time.Time  `json:"createdAt"`
	CollectedAt   *time.Time `json:"collectedAt"`
}
