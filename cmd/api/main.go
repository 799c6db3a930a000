package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/config"
	"github.com/rileyblackwell/Imagi-sub001/internal/server"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ProductionMode {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to initialize server: %v", err)
	}

	go func() {
		logger.Infof("Server listening on %s", srv.HTTP.Addr)
		if err := srv.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully ...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	logger.Info("Server exiting")
}
