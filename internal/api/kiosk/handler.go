package kiosk

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gallery-kiosk/internal/api/respond"
	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/live"
	"gallery-kiosk/internal/realtime"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const writeTimeout = 5 * time.Second

// ActiveView is the wire form of the active exhibition query.
type ActiveView struct {
	State      string                      `json:"state"`
	Exhibition *gallery.HydratedExhibition `json:"exhibition,omitempty"`
	Stale      bool                        `json:"stale,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func viewOf(r live.ActiveResult) ActiveView {
	v := ActiveView{State: r.State.String(), Exhibition: r.Exhibition, Stale: r.Stale()}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return v
}

type Handler struct {
	live *live.Client
	hub  *realtime.Hub
	log  zerolog.Logger
}

func NewHandler(l *live.Client, hub *realtime.Hub, log zerolog.Logger) *Handler {
	return &Handler{live: l, hub: hub, log: log.With().Str("component", "kiosk").Logger()}
}

// GET /kiosk/active
func (h *Handler) GetActive(c *gin.Context) {
	e, err := h.live.FetchActiveExhibition(c.Request.Context())
	if err != nil {
		respond.Error(c, "Failed to load active exhibition", err)
		return
	}
	if e == nil {
		c.JSON(http.StatusOK, ActiveView{State: live.ActiveNone.String()})
		return
	}
	c.JSON(http.StatusOK, ActiveView{State: live.ActiveSome.String(), Exhibition: e})
}

// GET /kiosk/exhibitions/:id
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

// GET /kiosk/active/ws
//
// Mounts an active-exhibition query for the lifetime of the connection and
// pushes every state it goes through, starting with the current one.
func (h *Handler) ActiveStream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := conn.CloseRead(c.Request.Context())
	q := h.live.ActiveExhibition()
	defer q.Close()

	for {
		res, changed := q.WatchResult()
		if err := writeJSON(ctx, conn, viewOf(res)); err != nil {
			return
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return
		}
	}
}

// GET /live/ws?table=artworks&id=...
//
// Streams raw change signals so that remote consumers can run their own
// queries.
func (h *Handler) ChangeFeed(c *gin.Context) {
	filter := realtime.Filter{Table: realtime.Table(c.Query("table")), ID: c.Query("id")}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := conn.CloseRead(c.Request.Context())
	ch, cancel := h.hub.Subscribe(filter)
	defer cancel()

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := writeJSON(ctx, conn, change); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, data)
}
