package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"battery-arbitrage/internal/api/handlers"
	"battery-arbitrage/internal/api/middleware"
	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/logging"
	"battery-arbitrage/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := flag.String("config", "", "Optional YAML config (env vars override it)")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache *session.ResultCache
	if cfg.Cache.Enabled {
		cache = session.NewResultCache(cfg.Cache.TTL)
		go cache.Run(ctx, 5*time.Minute)
		log.WithField("ttl", cfg.Cache.TTL).Info("result cache enabled")
	}

	sess := session.New(session.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Cache:          cache,
		Logger:         log,
	})

	router := newRouter(cfg, sess, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.WithError(err).Fatal("listen failed")
	}
	log.WithField("addr", srv.Addr).Info("starting API server")
	if err := serve(ctx, srv, ln, log, 10*time.Second); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}

// serve runs srv on ln until ctx is cancelled, then drains connections for
// at most grace. It returns once the shutdown has finished.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log logrus.FieldLogger, grace time.Duration) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-drained
		return nil
	}
	return err
}

func newRouter(cfg *config.Config, sess *session.Session, log *logrus.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))

	analysisHandler := handlers.NewAnalysisHandler(sess, cfg.MaxUploadBytes())
	batteryHandler := handlers.NewBatteryHandler(cfg.BatteryDir, log)

	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		api.POST("/upload", analysisHandler.Upload)
		api.POST("/analyze", analysisHandler.Analyze)
		api.GET("/dataset", analysisHandler.DatasetInfo)
		api.GET("/batteries", batteryHandler.ListBatteries)
	}

	staticDir := cfg.Server.StaticDir
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		router.Static("/static", staticDir)
		router.StaticFile("/", filepath.Join(staticDir, "index.html"))
		log.WithField("dir", staticDir).Info("serving static files")
	} else {
		log.WithField("dir", staticDir).Warn("static directory not found, skipping static file serving")
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "no such endpoint"},
			})
			return
		}
		c.Status(http.StatusNotFound)
	})

	return router
}
