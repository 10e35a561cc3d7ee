package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "task_tracker/docs"
	"task_tracker/internal/config"
	"task_tracker/internal/handlers"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"
	"task_tracker/internal/repository/db"
	"task_tracker/internal/server"
	"task_tracker/internal/service"
)

// @title                       Task Tracker API
// @version                     1.0
// @description                 Multi-user task tracker. Every task belongs to the user whose bearer token created it.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml + TASKS_* env
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	defer log.Close()

	conn, err := db.InitDB(cfg.DB.Path, cfg.DB.BusyTimeout)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services, err := service.NewService(repos, service.Options{
		TokenSecret: cfg.Auth.Secret,
		TokenTTL:    cfg.Auth.TokenTTL,
		BcryptCost:  cfg.Auth.BcryptCost,
		Tasks: service.TaskOptions{
			DefaultStatus: cfg.Tasks.DefaultStatus,
			DefaultLimit:  cfg.Tasks.DefaultLimit,
			MaxLimit:      cfg.Tasks.MaxLimit,
		},
	})
	if err != nil {
		log.Fatalw("failed to init services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithRequestTimeout(cfg.Server.RequestTimeout),
		handlers.WithCORSOrigins(cfg.Server.CORSOrigins),
	)

	srv := server.New(cfg.Port, apiHandler.InitRoutes(), cfg.Server)
	runHTTPServer(srv, cfg.Port, log)

	waitForShutdown(srv, cfg.Server, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight requests.
func waitForShutdown(srv *server.Server, cfg config.ServerConfig, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
