package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"marketbot/marketbot/bot"
	"marketbot/marketbot/config"
	"marketbot/marketbot/controllers"
	"marketbot/marketbot/routes"
	"marketbot/marketbot/services/browser"
	"marketbot/marketbot/services/classifier"
	"marketbot/marketbot/services/delivery"
	"marketbot/marketbot/services/discovery"
	"marketbot/marketbot/services/imagerelay"
	"marketbot/marketbot/services/navigator"
	"marketbot/marketbot/services/replyservice"
	"marketbot/marketbot/sources/psql"
	"marketbot/marketbot/sources/psql/dao"
	"marketbot/marketbot/sources/storage"
	"marketbot/marketbot/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	settingDAO := dao.NewSettingDAO(db.DB)
	replyLogDAO := dao.NewReplyLogDAO(db.DB)

	sel, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		logging.ErrorLogger.Error("selector override unreadable, using defaults",
			zap.String("path", cfg.SelectorsFile), zap.Error(err))
	}

	// The image cache is optional; without MinIO every image reply is
	// fetched fresh from its source URL.
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logging.AppLogger.Warn("minio unavailable, image caching disabled", zap.Error(err))
		minioClient = nil
	}

	session, err := browser.NewSession(cfg)
	if err != nil {
		logging.ErrorLogger.Error("browser session error", zap.Error(err))
		os.Exit(1)
	}
	defer session.Close()
	page := session.Page()

	state := bot.NewRunState()
	hub := routes.NewProgressHub()
	progress := bot.MultiReporter{bot.NewLogReporter(), hub}

	relay := imagerelay.New(minioClient)
	engine := bot.NewEngine(
		state,
		discovery.NewScanner(page, sel),
		navigator.New(page, sel),
		classifier.NewExtractor(page, sel),
		replyservice.NewClient(settingDAO, cfg.WebhookURL),
		delivery.NewAgent(page, sel, relay, state.Cancelled),
		settingDAO,
		replyLogDAO,
		progress,
	)
	watcher := bot.NewWatcher(engine, settingDAO)
	if settingDAO.GetBool(ctx, dao.KeyAutoResponder, false) {
		watcher.Start(context.Background())
	}

	healthCtrl := controllers.NewHealthController()
	botCtrl := controllers.NewBotController(engine, watcher, settingDAO, replyLogDAO)
	settingsCtrl := controllers.NewSettingsController(settingDAO, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/bot", routes.BotRoutes(botCtrl, hub, cfg))
	r.Mount("/settings", routes.SettingsRoutes(settingsCtrl, cfg))

	srv := &http.Server{
		Addr:    ":8000", // Or load from env
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("marketbot listening", zap.String("addr", srv.Addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	engine.Cancel()
	watcher.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
