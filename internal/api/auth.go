package api

import (
	"net/http"
	"strings"

	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/internal/workflow"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var errInvalidCredentials = &errors.AuthError{Message: "Invalid email or password"}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.workflow.Register(c.Request.Context(), workflow.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}, auth.HashPassword)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.issuer.Issue(u.ID, u.Role)
	if err != nil {
		c.Error(&errors.APIError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", Err: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    u,
		"token":   token,
	})
}

// Login answers unknown, inactive and wrong-password accounts alike.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		c.Error(&errors.ValidationError{Message: "Email and password are required"})
		return
	}

	u, err := h.store.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if _, ok := err.(*errors.NotFoundError); ok {
			c.Error(errInvalidCredentials)
			return
		}
		c.Error(err)
		return
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.Error(errInvalidCredentials)
		return
	}

	token, err := h.issuer.Issue(u.ID, u.Role)
	if err != nil {
		c.Error(&errors.APIError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", Err: err})
		return
	}
	logger.Info("User logged in: %s", u.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.store.GetUserByID(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) CompleteOnboarding(c *gin.Context) {
	if err := h.store.CompleteOnboarding(c.Request.Context(), auth.UserID(c)); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Onboarding completed successfully"})
}
