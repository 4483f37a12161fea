package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mrussa/storefront/internal/cache"
	"github.com/mrussa/storefront/internal/config"
	"github.com/mrussa/storefront/internal/memstore"
	"github.com/mrussa/storefront/internal/repo"
)

func quiet() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}

func TestSetupLogger_Level(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	e := SetupLogger("svc", "debug")
	require.Equal(t, log.DebugLevel, log.GetLevel())
	require.Equal(t, "svc", e.Data["service"])

	SetupLogger("svc", "loud")
	require.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestOpenStores_EmptyDSNUsesMemory(t *testing.T) {
	us, closeUsers, err := OpenUsersStore(context.Background(), config.Common{}, quiet())
	require.NoError(t, err)
	closeUsers()
	require.IsType(t, &memstore.Users{}, us)

	ords, closeOrders, err := OpenOrdersStore(context.Background(), config.Common{}, quiet())
	require.NoError(t, err)
	closeOrders()
	require.IsType(t, &memstore.Orders{}, ords)
}

func TestOpenStores_UnreachablePostgres(t *testing.T) {
	_, _, err := OpenUsersStore(context.Background(),
		config.Common{PostgresDSN: "postgres://u:p@127.0.0.1:1/db?sslmode=disable"}, quiet())
	require.Error(t, err)
	require.Contains(t, err.Error(), "postgres")
}

func TestUsersHandler_Serves(t *testing.T) {
	h := UsersHandler(config.Users{}, memstore.NewUsers(), prometheus.NewRegistry(), quiet())

	for path, code := range map[string]int{"/health": 200, "/readyz": 200, "/metrics": 200, "/users": 200} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, code, rr.Code, path)
	}
}

type failingRecent struct{ *memstore.Orders }

func (failingRecent) ListRecentOrders(context.Context, int) ([]repo.Order, error) {
	return nil, errors.New("down")
}

func TestWarmCache(t *testing.T) {
	store := memstore.NewOrders()
	for i := 0; i < 3; i++ {
		_, err := store.CreateOrder(context.Background(), "00000000-0000-4000-8000-000000000001",
			[]repo.Item{{SKU: "A", Quantity: 1, UnitPrice: 1}}, 1)
		require.NoError(t, err)
	}

	c := cache.New(0)
	warmCache(context.Background(), c, store, 2, quiet())
	require.Equal(t, 2, c.Len())

	c = cache.New(0)
	warmCache(context.Background(), c, store, 0, quiet())
	require.Zero(t, c.Len())

	c = cache.New(0)
	warmCache(context.Background(), c, failingRecent{store}, 10, quiet())
	require.Zero(t, c.Len())
}

func TestOrdersHandler_Serves(t *testing.T) {
	cfg := config.Orders{UserServiceURL: "http://127.0.0.1:1", CacheWarmLimit: 10}
	h := OrdersHandler(context.Background(), cfg, memstore.NewOrders(), prometheus.NewRegistry(), quiet())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
}
