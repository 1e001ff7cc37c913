package routes

import (
	adminapi "gallery-kiosk/internal/api/admin"
	chatapi "gallery-kiosk/internal/api/chat"
	kioskapi "gallery-kiosk/internal/api/kiosk"
	"gallery-kiosk/internal/api/reservations"
	worksapi "gallery-kiosk/internal/api/works"
	"gallery-kiosk/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Works        *worksapi.Handler
	Reservations *reservations.Handler
	Admin        *adminapi.Handler
	Kiosk        *kioskapi.Handler
	Chat         *chatapi.Handler
	Gate         middleware.AdminGate
	UploadDir    string
}

// URL fields are exempt from markup stripping; the policy would escape "&".
var sanitizeSkip = []string{"imageUrl", "photoUrl", "artistPhotoUrl"}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if h.UploadDir != "" {
		r.Static("/uploads", h.UploadDir)
	}

	// Kiosk (read only)
	r.GET("/kiosk/active", h.Kiosk.GetActive)
	r.GET("/kiosk/active/ws", h.Kiosk.ActiveStream)
	r.GET("/kiosk/exhibitions/:id", h.Kiosk.GetExhibition)
	r.GET("/live/ws", h.Kiosk.ChangeFeed)

	// Visitors
	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware(sanitizeSkip...))
	public.POST("/reservations", h.Reservations.Create)
	public.POST("/chat", h.Chat.Chat)

	// Login checks the secret itself
	r.POST("/admin/login", h.Admin.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdminKey(h.Gate))

	admin.GET("/refresh", h.Admin.RefreshVersion)
	admin.POST("/refresh", h.Admin.Refresh)
	admin.GET("/snapshot", h.Admin.ExportSnapshot)
	admin.POST("/snapshot", h.Admin.ImportSnapshot)
	admin.POST("/uploads", h.Admin.Upload)

	admin.GET("/artworks", h.Works.ListArtworks)
	admin.GET("/artists", h.Works.ListArtistNames)
	admin.POST("/artworks", h.Works.CreateArtwork)
	admin.PUT("/artworks/:id", h.Works.UpdateArtwork)
	admin.DELETE("/artworks/:id", h.Works.DeleteArtwork)

	admin.GET("/exhibitions", h.Works.ListExhibitions)
	admin.POST("/exhibitions", h.Works.CreateExhibition)
	admin.GET("/exhibitions/:id", h.Works.GetExhibition)
	admin.PUT("/exhibitions/:id", h.Works.UpdateExhibition)
	admin.DELETE("/exhibitions/:id", h.Works.DeleteExhibition)
	admin.POST("/exhibitions/:id/activate", h.Works.ActivateExhibition)
	admin.PUT("/exhibitions/:id/artworks/reorder", h.Works.ReorderArtworks)
	admin.PUT("/exhibitions/:id/artworks/move", h.Works.MoveExhibitionArtwork)
	admin.POST("/exhibitions/:id/artworks", h.Works.AddExhibitionArtwork)
	admin.DELETE("/exhibitions/:id/artworks/:artworkId", h.Works.RemoveExhibitionArtwork)
	admin.PUT("/exhibitions/:id/artists", h.Works.SaveExhibitionArtist)
	admin.DELETE("/exhibitions/:id/artists/:artistId", h.Works.RemoveExhibitionArtist)

	admin.GET("/reservations", h.Reservations.List)
	admin.PUT("/reservations/:id/status", h.Reservations.UpdateStatus)
	admin.DELETE("/reservations/:id", h.Reservations.Delete)
}
