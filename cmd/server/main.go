package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storyweave/storyweave/internal/config"
	"github.com/storyweave/storyweave/internal/directory"
	"github.com/storyweave/storyweave/internal/events"
	"github.com/storyweave/storyweave/internal/handlers"
	"github.com/storyweave/storyweave/internal/logging"
	"github.com/storyweave/storyweave/internal/middleware/auth"
	"github.com/storyweave/storyweave/internal/models"
	"github.com/storyweave/storyweave/internal/service/search"
	"github.com/storyweave/storyweave/internal/tokens"
	httpserver "github.com/storyweave/storyweave/internal/transport/http"
	"github.com/storyweave/storyweave/pkg/db"
)

const linesIndex = "lines"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	codec, err := tokens.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token codec error: %v", err)
	}

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	if err := database.AutoMigrate(&models.User{}, &models.Story{}, &models.Line{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	searchHandler := &handlers.SearchHandler{Index: linesIndex}
	lineHandler := &handlers.LineHandler{DB: database, Producer: producer, Index: linesIndex}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		searchHandler.ES = esClient
		lineHandler.ES = esClient
	}

	users := &directory.GormDirectory{DB: database}

	e := echo.New()
	e.HideBanner = true

	deps := httpserver.Deps{
		AuthHandler:   &handlers.AuthHandler{Users: users, Codec: codec, Producer: producer},
		UserHandler:   &handlers.UserHandler{DB: database, Producer: producer},
		StoryHandler:  &handlers.StoryHandler{DB: database, Producer: producer},
		LineHandler:   lineHandler,
		SearchHandler: searchHandler,
		Gate:          &auth.Gate{Codec: codec},
		RoleGate:      &auth.RoleGate{Users: users},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
