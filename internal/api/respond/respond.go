package respond

import (
	"errors"
	"net/http"

	"gallery-kiosk/internal/assistant"
	"gallery-kiosk/internal/mutation"
	"gallery-kiosk/internal/store"

	"github.com/gin-gonic/gin"
)

// Error writes the error body for err, choosing the status from its kind.
func Error(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, mutation.ErrInvalid), errors.Is(err, mutation.ErrInvalidSnapshot):
		status = http.StatusBadRequest
	case errors.Is(err, assistant.ErrDisabled):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": msg, "details": err.Error()})
}

func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func NotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}
