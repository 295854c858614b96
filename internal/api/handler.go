package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/auth"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/internal/websocket"
	"github.com/SIMPLYBOYS/smart_waste/internal/workflow"
	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// Handler serves the HTTP API.
type Handler struct {
	store    db.DBService
	workflow *workflow.Service
	issuer   *auth.TokenIssuer
	ws       *websocket.WebSocketManager
	now      func() time.Time
}

func NewHandler(store db.DBService, wf *workflow.Service, issuer *auth.TokenIssuer, ws *websocket.WebSocketManager) *Handler {
	return &Handler{
		store:    store,
		workflow: wf,
		issuer:   issuer,
		ws:       ws,
		now:      time.Now,
	}
}

// Health reports whether the store is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.Error(&errors.APIError{StatusCode: http.StatusServiceUnavailable, Message: "Database unavailable", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

// WebSocket upgrades the connection. A token query parameter, when
// present, subscribes it to the caller's private updates.
func (h *Handler) WebSocket(c *gin.Context) {
	var userID string
	if token := c.Query("token"); token != "" {
		claims, err := h.issuer.Parse(token)
		if err != nil {
			c.Error(err)
			return
		}
		userID = claims.Subject
	}
	h.ws.HandleWebSocket(c.Writer, c.Request, userID)
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.Error(&errors.ValidationError{Message: "Invalid request body"})
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter.
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &errors.ValidationError{Field: key, Message: "must be a non-negative integer"}
	}
	return n, nil
}

func queryFloat(c *gin.Context, key string) (float64, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, &errors.ValidationError{Field: key, Message: "must be a number"}
	}
	return f, true, nil
}
