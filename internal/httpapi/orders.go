package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/cache"
	"github.com/mrussa/storefront/internal/repo"
	"github.com/mrussa/storefront/internal/respond"
	"github.com/mrussa/storefront/internal/service"
)

type OrderService interface {
	Create(ctx context.Context, userID string, items []repo.Item) (repo.Order, error)
	Get(ctx context.Context, id string) (repo.Order, error)
	List(ctx context.Context) ([]repo.Order, error)
}

type OrdersAPI struct {
	svc    OrderService
	cache  *cache.OrdersCache
	opts   Options
	logger *log.Entry
}

func NewOrdersAPI(svc OrderService, c *cache.OrdersCache, opts Options) *OrdersAPI {
	if c == nil {
		c = cache.New(0)
	}
	return &OrdersAPI{svc: svc, cache: c, opts: opts, logger: opts.logger()}
}

// createOrderRequest accepts the owner under either spelling; user_id wins
// when both are present.
type createOrderRequest struct {
	UserID    string        `json:"user_id"`
	UserIDAlt string        `json:"userId"`
	Items     []itemRequest `json:"items"`
}

// itemRequest takes quantity as a number so integral floats like 3.0 are
// accepted; fractions are not.
type itemRequest struct {
	SKU       string      `json:"sku"`
	Quantity  json.Number `json:"quantity"`
	UnitPrice float64     `json:"unit_price"`
}

func (req createOrderRequest) items() ([]repo.Item, error) {
	out := make([]repo.Item, 0, len(req.Items))
	for i, it := range req.Items {
		q, ok := integral(it.Quantity)
		if !ok {
			return nil, fmt.Errorf("%w: items[%d].quantity: must be an integer", service.ErrInvalidInput, i)
		}
		out = append(out, repo.Item{SKU: it.SKU, Quantity: q, UnitPrice: it.UnitPrice})
	}
	return out, nil
}

// integral converts n to an int. Missing counts as 0 and magnitudes beyond
// int32 are clamped, leaving range errors to item validation.
func integral(n json.Number) (int, bool) {
	if n == "" {
		return 0, true
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(max(min(f, math.MaxInt32), math.MinInt32)), true
}

func (req createOrderRequest) owner() string {
	if req.UserID != "" {
		return req.UserID
	}
	return req.UserIDAlt
}

func (a *OrdersAPI) Routes() http.Handler {
	r := newRouter(a.opts)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", a.create)
		r.Get("/", a.list)
		r.Get("/{id}", a.get)
	})
	return r
}

func (a *OrdersAPI) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, "order", err)
		return
	}
	if req.Items == nil {
		respond.BadRequest(w, "field items: required", RequestID(r))
		return
	}

	// A client hanging up must not leave the order half-created once the
	// registry has confirmed the user.
	items, err := req.items()
	if err != nil {
		writeError(w, r, a.logger, "order", err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	o, err := a.svc.Create(ctx, req.owner(), items)
	if err != nil {
		writeError(w, r, a.logger, "order", err)
		return
	}
	a.cache.Set(o)
	respond.Created(w, o)
}

func (a *OrdersAPI) list(w http.ResponseWriter, r *http.Request) {
	orders, err := a.svc.List(r.Context())
	if err != nil {
		writeError(w, r, a.logger, "order", err)
		return
	}
	if orders == nil {
		orders = []repo.Order{}
	}
	respond.OK(w, orders)
}

func (a *OrdersAPI) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if o, ok := a.cache.Get(id); ok {
		a.logger.WithField("order_id", id).Debug("cache hit")
		respond.OK(w, o)
		return
	}

	o, err := a.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, a.logger, "order", err)
		return
	}
	a.cache.Set(o)
	respond.OK(w, o)
}

var _ OrderService = (*service.Orders)(nil)
