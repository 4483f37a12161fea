// Package db opens the Postgres pool backing a service's table.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns   = 20
	maxConnIdleTime   = 2 * time.Minute
	maxConnLifetime   = 45 * time.Minute
	connectionTimeout = 3 * time.Second
)

// Settings tunes the pool. Zero values take the package defaults.
type Settings struct {
	// AppName is reported to the server as application_name.
	AppName  string
	MaxConns int32
	MinConns int32
}

var newPoolWithConfig = pgxpool.NewWithConfig

func NewPool(ctx context.Context, dsn string, s Settings) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = defaultMaxConns
	if s.MaxConns > 0 {
		cfg.MaxConns = s.MaxConns
	}
	if s.MinConns > 0 && s.MinConns <= cfg.MaxConns {
		cfg.MinConns = s.MinConns
	}
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.MaxConnLifetime = maxConnLifetime
	if s.AppName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = s.AppName
	}

	return newPoolWithConfig(ctx, cfg)
}

func Ping(parent context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(parent, connectionTimeout)
	defer cancel()
	return pool.Ping(ctx)
}

// Open builds a pool and confirms the server answers. The pool is closed
// again if the first ping fails.
func Open(ctx context.Context, dsn string, s Settings) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, dsn, s)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
