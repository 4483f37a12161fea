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
	cfg := config.LoadOrders()
	logger := app.SetupLogger(app.OrdersServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{
		"http_addr":        cfg.HTTPAddr,
		"dsn_present":      cfg.PostgresDSN != "",
		"cache_warm_limit": cfg.CacheWarmLimit,
		"build":            version.Current().String(),
	}).Info("starting order service")

	if err := app.RunOrders(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("order service exited with error")
	}
	logger.Info("order service stopped")
}
