package works

import (
	"net/http"

	"gallery-kiosk/internal/api/respond"
	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/live"
	"gallery-kiosk/internal/mutation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	mut  *mutation.Mutator
	live *live.Client
}

func NewHandler(m *mutation.Mutator, l *live.Client) *Handler {
	return &Handler{mut: m, live: l}
}

// ------------------------------
// GET /admin/artworks
// ------------------------------
func (h *Handler) ListArtworks(c *gin.Context) {
	artworks, err := h.live.FetchArtworks(c.Request.Context())
	if err != nil {
		respond.Error(c, "Failed to load artworks", err)
		return
	}
	if artist := c.Query("artist"); artist != "" {
		artworks = gallery.ArtworksByArtist(artworks, artist)
	}
	c.JSON(http.StatusOK, artworks)
}

// ------------------------------
// GET /admin/artists  -> distinct artist names used by artworks
// ------------------------------
func (h *Handler) ListArtistNames(c *gin.Context) {
	artworks, err := h.live.FetchArtworks(c.Request.Context())
	if err != nil {
		respond.Error(c, "Failed to load artworks", err)
		return
	}
	c.JSON(http.StatusOK, gallery.DistinctArtists(artworks))
}

// ------------------------------
// POST /admin/artworks
// ------------------------------
func (h *Handler) CreateArtwork(c *gin.Context) {
	var req CreateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	a, err := h.mut.CreateArtwork(c.Request.Context(), mutation.ArtworkInput{
		Title:       req.Title,
		Artist:      req.Artist,
		Year:        req.Year,
		Medium:      req.Medium,
		Dimensions:  req.Dimensions,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		respond.Error(c, "Failed to create artwork", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ------------------------------
// PUT /admin/artworks/:id
// ------------------------------
func (h *Handler) UpdateArtwork(c *gin.Context) {
	var req UpdateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.mut.UpdateArtwork(c.Request.Context(), c.Param("id"), req); err != nil {
		respond.Error(c, "Failed to update artwork", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork updated"})
}

// ------------------------------
// DELETE /admin/artworks/:id
// ------------------------------
func (h *Handler) DeleteArtwork(c *gin.Context) {
	if err := h.mut.DeleteArtwork(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, "Failed to delete artwork", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}

// ------------------------------
// GET /admin/exhibitions
// ------------------------------
func (h *Handler) ListExhibitions(c *gin.Context) {
	list, err := h.live.FetchExhibitions(c.Request.Context())
	if err != nil {
		respond.Error(c, "Failed to load exhibitions", err)
		return
	}
	c.JSON(http.StatusOK, summarize(list))
}

// ------------------------------
// GET /admin/exhibitions/:id  -> hydrated
// ------------------------------
func (h *Handler) GetExhibition(c *gin.Context) {
	e, err := h.live.FetchExhibition(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, "Failed to load exhibition", err)
		return
	}
	if e == nil {
		respond.NotFound(c, "Exhibition")
		return
	}
	c.JSON(http.StatusOK, e)
}

// ------------------------------
// POST /admin/exhibitions
// ------------------------------
func (h *Handler) CreateExhibition(c *gin.Context) {
	var req CreateExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	e, err := h.mut.CreateExhibition(c.Request.Context(), mutation.ExhibitionInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ArtworkIDs:  req.ArtworkIDs,
		Artists:     req.Artists,
	})
	if err != nil {
		respond.Error(c, "Failed to create exhibition", err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ------------------------------
// PUT /admin/exhibitions/:id
// ------------------------------
func (h *Handler) UpdateExhibition(c *gin.Context) {
	var req UpdateExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.mut.UpdateExhibitionDetails(c.Request.Context(), c.Param("id"), req); err != nil {
		respond.Error(c, "Failed to update exhibition", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exhibition updated"})
}

// ------------------------------
// DELETE /admin/exhibitions/:id
// ------------------------------
func (h *Handler) DeleteExhibition(c *gin.Context) {
	if err := h.mut.DeleteExhibition(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, "Failed to delete exhibition", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exhibition deleted"})
}

// ------------------------------
// POST /admin/exhibitions/:id/activate
// ------------------------------
func (h *Handler) ActivateExhibition(c *gin.Context) {
	if err := h.mut.SetExhibitionActive(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, "Failed to activate exhibition", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exhibition activated"})
}

// ------------------------------
// PUT /admin/exhibitions/:id/artworks/reorder
// ------------------------------
func (h *Handler) ReorderArtworks(c *gin.Context) {
	var req ReorderArtworksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.mut.UpdateExhibitionArtworks(c.Request.Context(), c.Param("id"), req.ArtworkIDs); err != nil {
		respond.Error(c, "Failed to reorder artworks", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artworks reordered"})
}

// ------------------------------
// POST /admin/exhibitions/:id/artworks
// ------------------------------
func (h *Handler) AddExhibitionArtwork(c *gin.Context) {
	var req AddArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.mut.AddArtworkToExhibition(c.Request.Context(), c.Param("id"), req.ArtworkID); err != nil {
		respond.Error(c, "Failed to add artwork", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork added"})
}

// DELETE /admin/exhibitions/:id/artworks/:artworkId
func (h *Handler) RemoveExhibitionArtwork(c *gin.Context) {
	if err := h.mut.RemoveArtworkFromExhibition(c.Request.Context(), c.Param("id"), c.Param("artworkId")); err != nil {
		respond.Error(c, "Failed to remove artwork", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork removed"})
}

// PUT /admin/exhibitions/:id/artworks/move
func (h *Handler) MoveExhibitionArtwork(c *gin.Context) {
	var req MoveArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.mut.MoveExhibitionArtwork(c.Request.Context(), c.Param("id"), *req.From, *req.To); err != nil {
		respond.Error(c, "Failed to move artwork", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork moved"})
}

// ------------------------------
// PUT /admin/exhibitions/:id/artists
// ------------------------------
func (h *Handler) SaveExhibitionArtist(c *gin.Context) {
	var req gallery.Artist
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	a, err := h.mut.SaveExhibitionArtist(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respond.Error(c, "Failed to save artist", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DELETE /admin/exhibitions/:id/artists/:artistId
func (h *Handler) RemoveExhibitionArtist(c *gin.Context) {
	if err := h.mut.RemoveExhibitionArtist(c.Request.Context(), c.Param("id"), c.Param("artistId")); err != nil {
		respond.Error(c, "Failed to remove artist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist removed"})
}
