package reservations

import (
	"net/http"

	"gallery-kiosk/internal/api/respond"
	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/live"
	"gallery-kiosk/internal/mutation"

	"github.com/gin-gonic/gin"
)

type CreateReservationRequest struct {
	ArtworkID    string  `json:"artworkId" binding:"required"`
	VisitorName  string  `json:"visitorName" binding:"required"`
	VisitorEmail string  `json:"visitorEmail" binding:"required,email"`
	VisitorPhone *string `json:"visitorPhone"`
}

type UpdateStatusRequest struct {
	Status gallery.ReservationStatus `json:"status" binding:"required"`
}

type Handler struct {
	mut  *mutation.Mutator
	live *live.Client
}

func NewHandler(m *mutation.Mutator, l *live.Client) *Handler {
	return &Handler{mut: m, live: l}
}

// POST /api/reservations (public)
func (h *Handler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}

	r, err := h.mut.CreateReservation(c.Request.Context(), mutation.ReservationInput{
		ArtworkID:    req.ArtworkID,
		VisitorName:  req.VisitorName,
		VisitorEmail: req.VisitorEmail,
		VisitorPhone: req.VisitorPhone,
	})
	if err != nil {
		respond.Error(c, "Failed to create reservation", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "reservation": r})
}

// GET /admin/reservations
func (h *Handler) List(c *gin.Context) {
	list, err := h.live.FetchReservations(c.Request.Context())
	if err != nil {
		respond.Error(c, "Failed to load reservations", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /admin/reservations/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.mut.UpdateReservationStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respond.Error(c, "Failed to update reservation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation updated"})
}

// DELETE /admin/reservations/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.mut.DeleteReservation(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, "Failed to delete reservation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}
