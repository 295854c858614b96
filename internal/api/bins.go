package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/gin-gonic/gin"
)

const defaultSearchRadiusKm = 10

// GetBin resolves a scanned bin code. Only Active bins can be used.
func (h *Handler) GetBin(c *gin.Context) {
	bin, err := h.store.GetBin(c.Request.Context(), c.Param("binCode"))
	if err != nil {
		c.Error(err)
		return
	}
	if bin.Status != db.BinActive {
		c.Error(&errors.ConflictError{Resource: "bin", Message: fmt.Sprintf("Bin is currently %s", strings.ToLower(bin.Status))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bin": bin})
}

// ListBins lists Active bins, nearest first when lat and lng are given.
func (h *Handler) ListBins(c *gin.Context) {
	lat, hasLat, err := queryFloat(c, "lat")
	if err != nil {
		c.Error(err)
		return
	}
	lng, hasLng, err := queryFloat(c, "lng")
	if err != nil {
		c.Error(err)
		return
	}
	radius, hasRadius, err := queryFloat(c, "radius")
	if err != nil {
		c.Error(err)
		return
	}
	if !hasRadius || radius <= 0 {
		radius = defaultSearchRadiusKm
	}

	var near *db.GeoFilter
	if hasLat && hasLng {
		near = &db.GeoFilter{Lat: lat, Lng: lng, RadiusKm: radius}
	}

	bins, err := h.store.ListActiveBins(c.Request.Context(), near)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bins": bins})
}
