package api

import (
	"net/http"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/gin-gonic/gin"
)

const (
	trendMonths             = 6
	defaultLeaderboardLimit = 10
	defaultActivityLimit    = 20
)

type paymentRequest struct {
	CollectorID string  `json:"collectorId"`
	Amount      float64 `json:"amount"`
	PhoneNumber string  `json:"phoneNumber"`
}

func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.store.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) GetWasteTrends(c *gin.Context) {
	trends, err := h.store.GetWasteTrends(c.Request.Context(), h.now().AddDate(0, -trendMonths, 0))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultLeaderboardLimit)
	if err != nil {
		c.Error(err)
		return
	}

	leaderboard, err := h.store.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard})
}

func (h *Handler) GetRecentActivity(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultActivityLimit)
	if err != nil {
		c.Error(err)
		return
	}

	activity, err := h.store.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// CreatePayment queues a collector payout for the next settlement sweep.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req paymentRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.workflow.QueuePayment(c.Request.Context(), db.NewPayment{
		CollectorID: req.CollectorID,
		Amount:      req.Amount,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": p})
}
