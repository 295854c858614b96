package api

import (
	"net/http"

	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRewards(c *gin.Context) {
	rewards, err := h.store.ListAvailableRewards(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

func (h *Handler) RedeemReward(c *gin.Context) {
	result, err := h.workflow.RedeemReward(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Reward redeemed successfully",
		"redemptionCode": result.RedemptionCode,
		"pointsSpent":    result.PointsSpent,
	})
}

func (h *Handler) ListRedemptions(c *gin.Context) {
	redemptions, err := h.store.ListRedemptions(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}
