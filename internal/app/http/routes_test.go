package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gallery-kiosk/config"
	"gallery-kiosk/database"
	adminapi "gallery-kiosk/internal/api/admin"
	chatapi "gallery-kiosk/internal/api/chat"
	kioskapi "gallery-kiosk/internal/api/kiosk"
	"gallery-kiosk/internal/api/reservations"
	worksapi "gallery-kiosk/internal/api/works"
	"gallery-kiosk/internal/app/http/middleware"
	"gallery-kiosk/internal/assistant"
	"gallery-kiosk/internal/domain/gallery"
	"gallery-kiosk/internal/live"
	"gallery-kiosk/internal/mutation"
	"gallery-kiosk/internal/realtime"
	"gallery-kiosk/internal/refresh"
	"gallery-kiosk/internal/store"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminKey = "test-admin-key"

type testServer struct {
	router *gin.Engine
	hub    *realtime.Hub
	sig    *refresh.Signal
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(config.DriverSQLite, filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zerolog.Nop()
	hub := realtime.NewHub(log)
	t.Cleanup(hub.Close)

	st := store.NewGormStore(db, hub)
	sig := refresh.New()
	client := live.NewClient(st, hub, sig, 50*time.Millisecond, log)
	mut := mutation.New(st, log)
	gate := middleware.AdminGate{Secret: adminKey}

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Works:        worksapi.NewHandler(mut, client),
		Reservations: reservations.NewHandler(mut, client),
		Admin:        adminapi.NewHandler(mut, sig, gate, t.TempDir(), ""),
		Kiosk:        kioskapi.NewHandler(client, hub, log),
		Chat:         chatapi.NewHandler(assistant.New(nil, client)),
		Gate:         gate,
	})
	return &testServer{router: r, hub: hub, sig: sig}
}

func (s *testServer) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(middleware.AdminKeyHeader, adminKey)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createArtwork(t *testing.T, title string) gallery.Artwork {
	t.Helper()
	w := s.do(t, http.MethodPost, "/admin/artworks", map[string]any{
		"title":    title,
		"artist":   "Ana Lima",
		"imageUrl": "/uploads/" + title + ".jpg?w=1&h=2",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[gallery.Artwork](t, w)
}

func (s *testServer) createExhibition(t *testing.T, title string, ids ...string) gallery.Exhibition {
	t.Helper()
	w := s.do(t, http.MethodPost, "/admin/exhibitions", map[string]any{
		"title":      title,
		"artworkIds": ids,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[gallery.Exhibition](t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAdminRoutesRequireKey(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/admin/artworks", "/admin/exhibitions", "/admin/snapshot", "/admin/reservations"} {
		w := s.do(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := s.do(t, http.MethodPost, "/admin/login", map[string]string{"secret": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/admin/login", map[string]string{"secret": adminKey}, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestArtworkLifecycle(t *testing.T) {
	s := newTestServer(t)

	a := s.createArtwork(t, "L'été à Paris & Nice")
	assert.Equal(t, "L'été à Paris & Nice", a.Title)
	assert.Equal(t, "/uploads/L'été à Paris & Nice.jpg?w=1&h=2", a.ImageURL)
	assert.Equal(t, gallery.StatusAvailable, a.Status)

	w := s.do(t, http.MethodPost, "/admin/artworks", map[string]any{"title": "no image"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/admin/artworks/"+a.ID, map[string]any{"status": "sold"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPut, "/admin/artworks/"+a.ID, map[string]any{"status": "stolen"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPut, "/admin/artworks/missing", map[string]any{"status": "sold"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/admin/artworks", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]gallery.Artwork](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, gallery.StatusSold, list[0].Status)

	w = s.do(t, http.MethodDelete, "/admin/artworks/"+a.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/admin/artworks/"+a.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKioskActiveExhibition(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/kiosk/active", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"none"}`, w.Body.String())

	a := s.createArtwork(t, "A")
	b := s.createArtwork(t, "B")
	e := s.createExhibition(t, "Show", b.ID, "dangling", a.ID)
	other := s.createExhibition(t, "Other")

	w = s.do(t, http.MethodPost, "/admin/exhibitions/"+e.ID+"/activate", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/kiosk/active", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[kioskapi.ActiveView](t, w)
	assert.Equal(t, "active", view.State)
	require.NotNil(t, view.Exhibition)
	assert.Equal(t, e.ID, view.Exhibition.ID)
	require.Len(t, view.Exhibition.Artworks, 2)
	assert.Equal(t, b.ID, view.Exhibition.Artworks[0].ID)
	assert.Equal(t, a.ID, view.Exhibition.Artworks[1].ID)

	w = s.do(t, http.MethodPost, "/admin/exhibitions/"+other.ID+"/activate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[kioskapi.ActiveView](t, s.do(t, http.MethodGet, "/kiosk/active", nil, false))
	assert.Equal(t, other.ID, view.Exhibition.ID)

	w = s.do(t, http.MethodPost, "/admin/exhibitions/nope/activate", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/kiosk/exhibitions/"+e.ID, nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/kiosk/exhibitions/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReorderAndDeleteCleanup(t *testing.T) {
	s := newTestServer(t)
	a := s.createArtwork(t, "A")
	b := s.createArtwork(t, "B")
	e := s.createExhibition(t, "Show", a.ID, b.ID)

	w := s.do(t, http.MethodPut, "/admin/exhibitions/"+e.ID+"/artworks/reorder",
		map[string]any{"artworkIds": []string{b.ID, a.ID}}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodDelete, "/admin/artworks/"+b.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/admin/exhibitions/"+e.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[gallery.HydratedExhibition](t, w)
	assert.Equal(t, []string{a.ID}, got.ArtworkIDs)
}

func TestCuratorMembershipEdits(t *testing.T) {
	s := newTestServer(t)
	a := s.createArtwork(t, "A")
	b := s.createArtwork(t, "B")
	e := s.createExhibition(t, "Show", a.ID)

	w := s.do(t, http.MethodPost, "/admin/exhibitions/"+e.ID+"/artworks", map[string]any{"artworkId": b.ID}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPut, "/admin/exhibitions/"+e.ID+"/artworks/move", map[string]any{"from": 1, "to": 0}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[gallery.HydratedExhibition](t, s.do(t, http.MethodGet, "/admin/exhibitions/"+e.ID, nil, true))
	assert.Equal(t, []string{b.ID, a.ID}, got.ArtworkIDs)

	w = s.do(t, http.MethodDelete, "/admin/exhibitions/"+e.ID+"/artworks/"+b.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/admin/exhibitions/"+e.ID+"/artists", map[string]any{"name": "<i>Ana</i>"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	artist := decode[gallery.Artist](t, w)
	assert.Equal(t, "Ana", artist.Name)

	got = decode[gallery.HydratedExhibition](t, s.do(t, http.MethodGet, "/admin/exhibitions/"+e.ID, nil, true))
	assert.Equal(t, []string{a.ID}, got.ArtworkIDs)
	require.Len(t, got.Artists, 1)

	w = s.do(t, http.MethodDelete, "/admin/exhibitions/"+e.ID+"/artists/"+artist.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReservationCoupling(t *testing.T) {
	s := newTestServer(t)
	x := s.createArtwork(t, "X")
	y := s.createArtwork(t, "Y")

	w := s.do(t, http.MethodPost, "/api/reservations", map[string]any{
		"artworkId":    x.ID,
		"visitorName":  "Jo",
		"visitorEmail": "not-an-email",
	}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/reservations", map[string]any{
		"artworkId":    x.ID,
		"visitorName":  "<b>Jo</b> O'Brien",
		"visitorEmail": "jo@example.com",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Success     bool                `json:"success"`
		Reservation gallery.Reservation `json:"reservation"`
	}](t, w)
	assert.True(t, created.Success)
	assert.Equal(t, "Jo O'Brien", created.Reservation.VisitorName)

	statuses := func() map[string]gallery.ArtworkStatus {
		list := decode[[]gallery.Artwork](t, s.do(t, http.MethodGet, "/admin/artworks", nil, true))
		out := map[string]gallery.ArtworkStatus{}
		for _, a := range list {
			out[a.ID] = a.Status
		}
		return out
	}
	assert.Equal(t, map[string]gallery.ArtworkStatus{x.ID: gallery.StatusReserved, y.ID: gallery.StatusAvailable}, statuses())

	views := decode[[]gallery.ReservationView](t, s.do(t, http.MethodGet, "/admin/reservations", nil, true))
	require.Len(t, views, 1)
	assert.Equal(t, "X", views[0].ArtworkTitle)

	w = s.do(t, http.MethodPut, "/admin/reservations/"+created.Reservation.ID+"/status",
		map[string]any{"status": "contacted"}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/admin/reservations/"+created.Reservation.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]gallery.ArtworkStatus{x.ID: gallery.StatusAvailable, y.ID: gallery.StatusAvailable}, statuses())
}

func TestSnapshotExportImport(t *testing.T) {
	s := newTestServer(t)
	a := s.createArtwork(t, "A")
	s.createExhibition(t, "Show", a.ID)

	w := s.do(t, http.MethodGet, "/admin/snapshot", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	doc := w.Body.String()

	w = s.do(t, http.MethodPost, "/admin/snapshot", `{"artworks": "nope"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/admin/snapshot", doc, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"artworks":1,"exhibitions":1}`, w.Body.String())
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	upload := func(name string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("not really an image"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(middleware.AdminKeyHeader, adminKey)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w := upload("photo.JPG")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	url := decode[map[string]string](t, w)["url"]
	assert.True(t, strings.HasPrefix(url, "/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	w = upload("script.sh")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/admin/refresh", nil, true)
	assert.JSONEq(t, `{"version":0}`, w.Body.String())
	w = s.do(t, http.MethodPost, "/admin/refresh", nil, true)
	assert.JSONEq(t, `{"version":1}`, w.Body.String())
	assert.Equal(t, uint64(1), s.sig.Version())
}

func TestChatPingWithoutModel(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "ping"}},
	}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"reply":"pong"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "Bonjour"}},
	}, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func readView(t *testing.T, ctx context.Context, conn *websocket.Conn) kioskapi.ActiveView {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var v kioskapi.ActiveView
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestActiveStreamFollowsActivation(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/kiosk/active/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	v := readView(t, ctx, conn)
	for v.State == "loading" {
		v = readView(t, ctx, conn)
	}
	assert.Equal(t, "none", v.State)

	e := s.createExhibition(t, "Live")
	w := s.do(t, http.MethodPost, "/admin/exhibitions/"+e.ID+"/activate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	for v.State != "active" {
		v = readView(t, ctx, conn)
	}
	require.NotNil(t, v.Exhibition)
	assert.Equal(t, e.ID, v.Exhibition.ID)
}

func TestChangeFeedFiltersByTable(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/live/ws?table=artworks", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return s.hub.Subscribers() > 0 }, 2*time.Second, 10*time.Millisecond)

	s.createExhibition(t, "ignored")
	a := s.createArtwork(t, "A")

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var c realtime.Change
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, realtime.TableArtworks, c.Table)
	assert.Equal(t, realtime.OpInsert, c.Op)
	assert.Equal(t, a.ID, c.ID)
}
