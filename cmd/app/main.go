package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shortlink-redirect/internal/config"
	"shortlink-redirect/internal/handler"
	"shortlink-redirect/internal/i18n"
	"shortlink-redirect/internal/middleware"
	"shortlink-redirect/internal/repository"
	"shortlink-redirect/internal/service"
	"shortlink-redirect/internal/worker"
	"shortlink-redirect/pkg/logging"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.InitLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()
	logger.Info("Application started",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	db, err := repository.OpenDB(cfg.DB, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}

	gateway := repository.NewCacheGateway(cfg.Redis, logger)
	links := repository.NewLinkRepository(db, logger)
	visits, err := repository.NewVisitRepository(db, cfg.App.NodeID)
	if err != nil {
		logger.Fatal("Failed to init visit repository", zap.Error(err))
	}

	bundle, err := i18n.InitI18n("en")
	if err != nil {
		logger.Fatal("Failed to initialize i18n", zap.Error(err))
	}

	dispatcher := worker.NewDispatcher(cfg.Visits.QueueSize, cfg.Visits.Workers, cfg.Visits.TaskTimeout, logger)

	resolver := service.NewResolver(gateway, links, cfg.Redis.TTL, logger)
	linkService := service.NewLinkService(links, gateway, logger)
	visitLogger := service.NewVisitLogger(visits, dispatcher, cfg.App.Environment, cfg.App.Version, logger)
	notifier := service.NewNotifier(cfg.Webhook, dispatcher, logger)
	if !notifier.Enabled() {
		logger.Info("Webhook URL not configured, visit notifications disabled")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	if cfg.Admin.Token == "" {
		logger.Warn("ADMIN_TOKEN not set, admin API is disabled")
	}

	gin.SetMode(cfg.Server.Mode)
	router := &handler.Router{
		Redirect:   handler.NewRedirectHandler(resolver, visitLogger, notifier),
		Password:   handler.NewPasswordHandler(service.NewPasswordVerifier(links, logger)),
		Pages:      handler.NewPageHandler(resolver, linkService, gateway),
		Links:      handler.NewLinkHandler(linkService),
		Visits:     handler.NewVisitHandler(visits),
		Bundle:     bundle,
		AdminToken: cfg.Admin.Token,
		Limiter:    limiter,
		Logger:     logger,
	}

	scheduler, err := startScheduler(cfg.Redis.KeepAliveInterval, gateway, dispatcher, logger)
	if err != nil {
		logger.Fatal("Failed to schedule cron job", zap.Error(err))
	}

	startServer(cfg.Server.Addr, router.Engine(), logger)

	// 先停定时任务，再等后台任务写完，最后关闭连接
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(ctx); err != nil {
		logger.Warn("Background tasks did not finish", zap.Error(err))
	}
	if err := gateway.Close(); err != nil {
		logger.Warn("Redis pool close failed", zap.Error(err))
	}
	if err := repository.CloseDB(db); err != nil {
		logger.Warn("Database close failed", zap.Error(err))
	}
	logger.Info("Server exiting")
}

// startScheduler Redis 保活探测，同时作为熔断器的恢复信号
func startScheduler(interval time.Duration, gateway *repository.CacheGateway, dispatcher *worker.Dispatcher, logger *zap.Logger) (*cron.Cron, error) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := cron.New()

	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gateway.Ping(ctx); err != nil {
			logger.Warn("Redis keep-alive ping failed", zap.Error(err), zap.String("circuit", gateway.State()))
		}
	})
	if err != nil {
		return nil, err
	}

	var lastDropped int64
	_, err = c.AddFunc("@every 1m", func() {
		if dropped := dispatcher.Dropped(); dropped > lastDropped {
			logger.Warn("Background tasks dropped since last check", zap.Int64("dropped", dropped-lastDropped))
			lastDropped = dropped
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func startServer(addr string, r *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
