package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const defaultQueryTimeout = 2 * time.Second

var newID = uuid.NewString

// table holds what every single-table store needs: a handle and a
// per-statement timeout.
type table struct {
	Pool     DB
	qTimeout time.Duration
}

func (t table) withQ(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.qTimeout)
}

func (t table) exec(ctx context.Context, op, sql string, args ...any) (pgconn.CommandTag, error) {
	ctxT, cancel := t.withQ(ctx)
	defer cancel()

	tag, err := t.Pool.Exec(ctxT, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return tag, ErrConflict
		}
		return tag, fmt.Errorf("%s: %w", op, err)
	}
	return tag, nil
}

func (t table) ping(ctx context.Context) error {
	ctxT, cancel := t.withQ(ctx)
	defer cancel()
	var x int
	if err := t.Pool.QueryRow(ctxT, "select 1").Scan(&x); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func validID(id string) bool { return id != "" && len(id) <= maxIDLen }

func errorsIsNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
