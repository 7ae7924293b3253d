package respond

import (
	"github.com/gin-gonic/gin"

	"github.com/Andresa-Alves-Ribeiro/digitsign-sub001/internal/shared/telemetry"
)

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
