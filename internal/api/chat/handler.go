package chat

import (
	"net/http"

	"gallery-kiosk/internal/api/respond"
	"gallery-kiosk/internal/assistant"

	"github.com/gin-gonic/gin"
)

type ChatRequest struct {
	Messages []assistant.Message `json:"messages" binding:"required,min=1"`
}

type Handler struct {
	assistant *assistant.Assistant
}

func NewHandler(a *assistant.Assistant) *Handler {
	return &Handler{assistant: a}
}

// POST /api/chat
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	reply, err := h.assistant.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		respond.Error(c, "Chat unavailable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
