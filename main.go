package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "courses/internal/config"
	"courses/internal/db"
	"courses/internal/domain/models"
	router "courses/internal/http"
	"courses/internal/http/handlers"
	"courses/internal/repositories"
	"courses/internal/services"
	"courses/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		panic(err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger, err := utils.NewLogger(env.LogLevel, env.GinMode)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()
	conn, err := intconfig.ConnectDB(ctx, env.DB)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer conn.Close()

	if env.DB.AutoMigrate {
		if err := db.EnsureSchema(ctx, conn); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}
	}

	types := models.NewCourseTypeSet(env.CourseTypes...)
	repo := repositories.NewCourseRepository(conn)
	svc := services.NewCourseService(repo, types)

	r := router.NewRouter(env, logger,
		handlers.NewCourseHandler(svc, types),
		handlers.NewSystemHandler(conn, svc),
	)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
