package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/app"
	"github.com/mrussa/storefront/internal/config"
	"github.com/mrussa/storefront/internal/version"
)

func main() {
	config.LoadDotenv()
	cfg := config.LoadUsers()
	logger := app.SetupLogger(app.UsersServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{
		"http_addr":   cfg.HTTPAddr,
		"dsn_present": cfg.PostgresDSN != "",
		"build":       version.Current().String(),
	}).Info("starting user service")

	if err := app.RunUsers(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("user service exited with error")
	}
	logger.Info("user service stopped")
}
