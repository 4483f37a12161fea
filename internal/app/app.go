// Package app wires configuration, stores and HTTP surfaces into the two
// runnable services.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/cache"
	"github.com/mrussa/storefront/internal/config"
	"github.com/mrussa/storefront/internal/db"
	"github.com/mrussa/storefront/internal/health"
	"github.com/mrussa/storefront/internal/httpapi"
	"github.com/mrussa/storefront/internal/memstore"
	"github.com/mrussa/storefront/internal/metrics"
	"github.com/mrussa/storefront/internal/repo"
	"github.com/mrussa/storefront/internal/service"
	"github.com/mrussa/storefront/internal/userclient"
	"github.com/mrussa/storefront/internal/version"
)

const (
	UsersServiceName  = "user-service"
	OrdersServiceName = "order-service"

	startupTimeout = 15 * time.Second
)

// SetupLogger configures the standard logrus logger and returns an entry
// tagged with the service name. Unknown levels fall back to info.
func SetupLogger(service, level string) *log.Entry {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	return log.WithField("service", service)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func baseOptions(service string, common config.Common, reg *prometheus.Registry, logger *log.Entry) (httpapi.Options, *health.Handler) {
	h := health.NewHandler(service, version.Version()).WithLogger(logger.WithField("component", "health"))
	return httpapi.Options{
		Logger:   logger.WithField("component", "http"),
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Health:   h,
		Limiter:  httpapi.NewRateLimiter(common.RateLimitRPS, common.RateLimitBurst),
	}, h
}

func openPool(ctx context.Context, service string, common config.Common, logger *log.Entry) (repo.DB, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := db.Open(ctx, common.PostgresDSN, db.Settings{
		AppName:  service,
		MaxConns: int32(common.PostgresMaxConns),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	logger.Info("connected to postgres")
	return pool, pool.Close, nil
}

// UsersStore is what the registry needs from its backing table.
type UsersStore interface {
	service.UserStore
	health.Pinger
}

// OpenUsersStore returns the Postgres table when a DSN is configured,
// otherwise an in-process store whose data dies with the process.
func OpenUsersStore(ctx context.Context, common config.Common, logger *log.Entry) (UsersStore, func(), error) {
	if common.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN is empty, users are kept in memory")
		return memstore.NewUsers(), func() {}, nil
	}
	pool, closeFn, err := openPool(ctx, UsersServiceName, common, logger)
	if err != nil {
		return nil, nil, err
	}
	r := repo.NewUsersRepo(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("users schema: %w", err)
	}
	return r, closeFn, nil
}

type OrdersStore interface {
	service.OrderStore
	health.Pinger
	ListRecentOrders(ctx context.Context, limit int) ([]repo.Order, error)
}

func OpenOrdersStore(ctx context.Context, common config.Common, logger *log.Entry) (OrdersStore, func(), error) {
	if common.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN is empty, orders are kept in memory")
		return memstore.NewOrders(), func() {}, nil
	}
	pool, closeFn, err := openPool(ctx, OrdersServiceName, common, logger)
	if err != nil {
		return nil, nil, err
	}
	r := repo.NewOrdersRepo(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("orders schema: %w", err)
	}
	return r, closeFn, nil
}

// UsersHandler builds the registry's HTTP handler on top of store.
func UsersHandler(cfg config.Users, store UsersStore, reg *prometheus.Registry, logger *log.Entry) http.Handler {
	opts, h := baseOptions(UsersServiceName, cfg.Common, reg, logger)
	h.Register("store", store)

	svc := service.NewUsers(store, logger.WithField("component", "users"))
	return httpapi.NewUsersAPI(svc, opts).Routes()
}

// OrdersHandler builds the order service's handler. The cache is warmed
// with the most recent orders; a failed warm-up only logs.
func OrdersHandler(ctx context.Context, cfg config.Orders, store OrdersStore, reg *prometheus.Registry, logger *log.Entry) http.Handler {
	opts, h := baseOptions(OrdersServiceName, cfg.Common, reg, logger)
	h.Register("store", store)

	client := userclient.New(cfg.UserServiceURL, cfg.UserServiceTimeout,
		userclient.WithObserver(metrics.NewExternal(reg)),
		userclient.WithRequestID(httpapi.RequestIDFromContext),
		userclient.WithLogger(logger.WithField("component", "userclient")),
	)

	c := cache.New(cfg.CacheMaxEntries)
	warmCache(ctx, c, store, cfg.CacheWarmLimit, logger)

	svc := service.NewOrders(store, client, logger.WithField("component", "orders"))
	return httpapi.NewOrdersAPI(svc, c, opts).Routes()
}

func warmCache(ctx context.Context, c *cache.OrdersCache, store OrdersStore, limit int, logger *log.Entry) {
	if limit <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	orders, err := store.ListRecentOrders(ctx, limit)
	if err != nil {
		logger.WithError(err).Warn("cache warm-up failed")
		return
	}
	n := c.Warm(orders)
	logger.WithField("size", n).Info("cache warmed")
}

func RunUsers(ctx context.Context, cfg config.Users, logger *log.Entry) error {
	store, closeStore, err := OpenUsersStore(ctx, cfg.Common, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	h := UsersHandler(cfg, store, newRegistry(), logger)
	return httpapi.Serve(ctx, httpapi.NewServer(cfg.HTTPAddr, h, 0), logger)
}

func RunOrders(ctx context.Context, cfg config.Orders, logger *log.Entry) error {
	store, closeStore, err := OpenOrdersStore(ctx, cfg.Common, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	logger.WithFields(log.Fields{
		"user_service_url":     cfg.UserServiceURL,
		"user_service_timeout": cfg.UserServiceTimeout,
	}).Info("user registry")

	h := OrdersHandler(ctx, cfg, store, newRegistry(), logger)
	return httpapi.Serve(ctx, httpapi.NewServer(cfg.HTTPAddr, h, cfg.UserServiceTimeout), logger)
}
