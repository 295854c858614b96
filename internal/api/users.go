package api

import (
	"net/http"

	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

func (h *Handler) GetUserAchievements(c *gin.Context) {
	achievements, err := h.store.ListUserAchievements(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

func (h *Handler) GetMonthlyStats(c *gin.Context) {
	stats, err := h.store.GetMonthlyStats(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthlyStats": stats})
}

func (h *Handler) GetLeaderboardPosition(c *gin.Context) {
	position, err := h.store.GetLeaderboardPosition(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, position)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.workflow.UpdateProfile(c.Request.Context(), auth.UserID(c), req.Name, req.Phone)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    u,
	})
}
