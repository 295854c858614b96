package api

import (
	"net/http"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/workflow"
	"github.com/gin-gonic/gin"
)

const defaultPickupPageSize = 20

type createPickupRequest struct {
	Type            string     `json:"type"`
	LocationLat     *float64   `json:"locationLat"`
	LocationLng     *float64   `json:"locationLng"`
	LocationAddress *string    `json:"locationAddress"`
	Notes           *string    `json:"notes"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
}

type completePickupRequest struct {
	Weight  float64 `json:"weight"`
	BinCode string  `json:"binCode"`
}

func (h *Handler) CreatePickup(c *gin.Context) {
	var req createPickupRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.workflow.CreatePickup(c.Request.Context(), auth.UserID(c), workflow.PickupInput{
		Type:            req.Type,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		LocationAddress: req.LocationAddress,
		Notes:           req.Notes,
		ScheduledAt:     req.ScheduledAt,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Pickup request created successfully",
		"pickup":  p,
	})
}

func (h *Handler) ListPickups(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultPickupPageSize)
	if err != nil {
		c.Error(err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		c.Error(err)
		return
	}

	pickups, err := h.store.ListPickups(c.Request.Context(), auth.UserID(c), db.PickupFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": pickups})
}

func (h *Handler) GetPickupStats(c *gin.Context) {
	stats, err := h.store.GetPickupStats(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) CompletePickup(c *gin.Context) {
	var req completePickupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.workflow.CompletePickup(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Weight, req.BinCode)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Pickup completed successfully",
		"pointsEarned": result.PointsEarned,
		"weight":       result.Weight,
	})
}
