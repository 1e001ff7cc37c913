package admin

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gallery-kiosk/internal/api/respond"
	"gallery-kiosk/internal/app/http/middleware"
	"gallery-kiosk/internal/mutation"
	"gallery-kiosk/internal/refresh"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxSnapshotBytes = 50 << 20

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type LoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

type Handler struct {
	mut     *mutation.Mutator
	signal  *refresh.Signal
	gate    middleware.AdminGate
	uploads string
	baseURL string
}

func NewHandler(m *mutation.Mutator, sig *refresh.Signal, gate middleware.AdminGate, uploadDir, baseURL string) *Handler {
	return &Handler{mut: m, signal: sig, gate: gate, uploads: uploadDir, baseURL: baseURL}
}

// POST /admin/login  -> pass/fail only, no session is issued
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if !h.gate.Check(req.Secret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /admin/refresh
func (h *Handler) RefreshVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.signal.Version()})
}

// POST /admin/refresh  -> every mounted live query re-runs
func (h *Handler) Refresh(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.signal.Bump()})
}

// GET /admin/snapshot
func (h *Handler) ExportSnapshot(c *gin.Context) {
	doc, err := h.mut.ExportSnapshot(c.Request.Context())
	if err != nil {
		respond.Error(c, "Failed to export snapshot", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="gallery-backup.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// POST /admin/snapshot
func (h *Handler) ImportSnapshot(c *gin.Context) {
	doc, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := h.mut.ImportSnapshot(c.Request.Context(), doc)
	if err != nil {
		respond.Error(c, "Import failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /admin/uploads  (multipart "file") -> public URL
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	if err := os.MkdirAll(h.uploads, 0o755); err != nil {
		respond.Error(c, "Failed to store file", err)
		return
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploads, name)); err != nil {
		respond.Error(c, "Failed to store file", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": fmt.Sprintf("%s/uploads/%s", h.baseURL, name)})
}
