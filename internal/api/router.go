package api

import (
	"net/http"

	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes the Gin router and sets up the routes
func SetupRouter(h *Handler, frontendURL string) *gin.Engine {
	r := gin.New()
	if gin.Mode() != gin.ReleaseMode {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery(), CORSMiddleware(frontendURL), ErrorMiddleware())

	r.GET("/health", h.Health)
	r.GET("/ws", h.WebSocket)

	api := r.Group("/api")
	requireAuth := auth.RequireAuth(h.issuer)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.Register)
	authRoutes.POST("/login", h.Login)
	authRoutes.GET("/profile", requireAuth, h.GetProfile)
	authRoutes.POST("/complete-onboarding", requireAuth, h.CompleteOnboarding)

	users := api.Group("/users", requireAuth)
	users.GET("/achievements", h.GetUserAchievements)
	users.GET("/monthly-stats", h.GetMonthlyStats)
	users.GET("/leaderboard-position", h.GetLeaderboardPosition)
	users.PUT("/profile", h.UpdateProfile)

	pickups := api.Group("/pickups", requireAuth)
	pickups.POST("", h.CreatePickup)
	pickups.GET("", h.ListPickups)
	pickups.GET("/stats", h.GetPickupStats)
	pickups.POST("/:id/complete", h.CompletePickup)

	rewards := api.Group("/rewards", requireAuth)
	rewards.GET("", h.ListRewards)
	rewards.GET("/redemptions", h.ListRedemptions)
	rewards.POST("/:id/redeem", h.RedeemReward)

	bins := api.Group("/bins", requireAuth)
	bins.GET("", h.ListBins)
	bins.GET("/:binCode", h.GetBin)

	admin := api.Group("/admin", requireAuth, auth.RequireRole(db.RoleAdmin))
	admin.GET("/dashboard-stats", h.GetDashboardStats)
	admin.GET("/waste-trends", h.GetWasteTrends)
	admin.GET("/leaderboard", h.GetLeaderboard)
	admin.GET("/recent-activity", h.GetRecentActivity)
	admin.POST("/payments", h.CreatePayment)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return r
}
