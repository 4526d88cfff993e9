package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"alcyxob/peer-review/internal/api"
	"alcyxob/peer-review/internal/config"
	"alcyxob/peer-review/internal/logging"
	"alcyxob/peer-review/internal/repository"
	"alcyxob/peer-review/internal/repository/memory"
	"alcyxob/peer-review/internal/repository/mongo"
	"alcyxob/peer-review/internal/service"
)

// @title Peer Review API
// @version 1.0
// @description API for project submissions, peer reviews and teacher grading.
// @host localhost:8080
// @BasePath /api
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("Could not load config: %v", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("Could not configure logging: %v", err)
	}
	log.Info("Starting Peer Review Server...")

	// --- Entity Store ---
	store, closeStore, err := openStore(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Could not open entity store")
	}
	defer closeStore()

	// --- Initialize Services ---
	recorder := service.NewEventRecorder(store.Notifications, store.Activity, time.Now)
	projectService := service.NewProjectService(store, recorder, time.Now)
	platformService := service.NewPlatformService(store, log.WithField("component", "platform_state"))
	authService := service.NewAuthService(store.Users)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Gin.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))
	api.SetupRoutes(router, cfg.CORS.AllowedOrigins, authService, projectService, platformService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exiting.")
}

// openStore connects the configured backend. The returned func releases it.
func openStore(cfg config.DatabaseConfig, log *logrus.Logger) (*repository.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("Using the in-memory store; data is lost on exit")
		return memory.NewStore(memory.Open()), func() {}, nil
	}

	client, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Name)
	log.WithField("database", cfg.Name).Info("Database connection established")

	// Uniqueness is enforced by these indexes, so they must exist before serving.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = mongo.DisconnectDB(client)
		return nil, nil, err
	}
	log.Info("Database indexes ensured")

	closeFn := func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(client); err != nil {
			log.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}
	return mongo.NewStore(client, db), closeFn, nil
}
