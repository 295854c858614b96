package api

import (
	"net/http"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorMiddleware renders the last error attached with c.Error as
// {"error": message}. Internal details only reach the log.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			switch e := err.(type) {
			case *errors.ValidationError:
				c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
			case *errors.NotFoundError:
				c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
			case *errors.ConflictError:
				c.JSON(http.StatusConflict, gin.H{"error": e.Message})
			case *errors.AuthError:
				status := http.StatusUnauthorized
				if e.Forbidden {
					status = http.StatusForbidden
				}
				c.JSON(status, gin.H{"error": e.Message})
			case *errors.DatabaseError:
				logger.LogError(e)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			case *errors.APIError:
				logger.LogError(e)
				c.JSON(e.StatusCode, gin.H{"error": e.Message})
			default:
				logger.LogError(e)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			c.Abort()
		}
	}
}

// CORSMiddleware allows the configured frontend origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
