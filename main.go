package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-kiosk/config"
	"gallery-kiosk/database"
	adminapi "gallery-kiosk/internal/api/admin"
	chatapi "gallery-kiosk/internal/api/chat"
	kioskapi "gallery-kiosk/internal/api/kiosk"
	"gallery-kiosk/internal/api/reservations"
	worksapi "gallery-kiosk/internal/api/works"
	routes "gallery-kiosk/internal/app/http"
	"gallery-kiosk/internal/app/http/middleware"
	"gallery-kiosk/internal/assistant"
	"gallery-kiosk/internal/live"
	"gallery-kiosk/internal/logging"
	"gallery-kiosk/internal/mutation"
	"gallery-kiosk/internal/realtime"
	"gallery-kiosk/internal/refresh"
	"gallery-kiosk/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadServerEnv()
	logger := logging.Setup(config.LOG_LEVEL, config.LOG_FILE)
	database.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)
	defer hub.Close()

	switch config.DB_DRIVER {
	case config.DriverPostgres:
		go realtime.NewPGListener(config.DB_URL, config.REALTIME_CHANNEL, hub, logger).Run(ctx)
	case config.DriverSQLite:
		go func() {
			if err := realtime.NewFileWatcher(config.SQLITE_PATH, hub, logger).Run(ctx); err != nil {
				logger.Error().Err(err).Msg("file watcher stopped")
			}
		}()
	}

	st := store.NewGormStore(database.DB, hub)
	sig := refresh.New()
	client := live.NewClient(st, hub, sig, config.ACTIVE_POLL_INTERVAL, logger)
	mut := mutation.New(st, logger)

	var completer assistant.Completer
	if config.ANTHROPIC_API_KEY != "" {
		completer = assistant.NewAnthropicCompleter(config.ANTHROPIC_API_KEY, config.CHAT_MODEL, config.CHAT_MAX_TOKENS)
	}
	gate := middleware.AdminGate{Secret: config.ADMIN_SECRET, Hash: config.ADMIN_SECRET_HASH}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.AdminKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Works:        worksapi.NewHandler(mut, client),
		Reservations: reservations.NewHandler(mut, client),
		Admin:        adminapi.NewHandler(mut, sig, gate, config.UPLOAD_DIR, config.PUBLIC_BASE_URL),
		Kiosk:        kioskapi.NewHandler(client, hub, logger),
		Chat:         chatapi.NewHandler(assistant.New(completer, client)),
		Gate:         gate,
		UploadDir:    config.UPLOAD_DIR,
	})

	srv := &http.Server{Addr: ":" + config.PORT, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("port", config.PORT).Str("driver", config.DB_DRIVER).Msg("gallery server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}
