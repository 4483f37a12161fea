package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/repo"
	"github.com/mrussa/storefront/internal/respond"
	"github.com/mrussa/storefront/internal/service"
)

type UserService interface {
	Create(ctx context.Context, name, email string) (repo.User, error)
	Get(ctx context.Context, id string) (repo.User, error)
	List(ctx context.Context) ([]repo.User, error)
	Update(ctx context.Context, id string, p repo.UserPatch) (repo.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersAPI struct {
	svc    UserService
	opts   Options
	logger *log.Entry
}

func NewUsersAPI(svc UserService, opts Options) *UsersAPI {
	return &UsersAPI{svc: svc, opts: opts, logger: opts.logger()}
}

// userRequest is shared by create and update. On update an explicit null
// is treated the same as an absent field.
type userRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (a *UsersAPI) Routes() http.Handler {
	r := newRouter(a.opts)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", a.create)
		r.Get("/", a.list)
		r.Get("/{id}", a.get)
		r.Put("/{id}", a.update)
		r.Delete("/{id}", a.delete)
	})
	return r
}

func (a *UsersAPI) create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}
	switch {
	case req.Name == nil:
		respond.BadRequest(w, "field name: required", RequestID(r))
		return
	case req.Email == nil:
		respond.BadRequest(w, "field email: required", RequestID(r))
		return
	}

	u, err := a.svc.Create(r.Context(), *req.Name, *req.Email)
	if err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}
	respond.Created(w, u)
}

func (a *UsersAPI) list(w http.ResponseWriter, r *http.Request) {
	users, err := a.svc.List(r.Context())
	if err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}
	if users == nil {
		users = []repo.User{}
	}
	respond.OK(w, users)
}

func (a *UsersAPI) get(w http.ResponseWriter, r *http.Request) {
	u, err := a.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}
	respond.OK(w, u)
}

func (a *UsersAPI) update(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}

	u, err := a.svc.Update(r.Context(), chi.URLParam(r, "id"), repo.UserPatch{Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}
	respond.OK(w, u)
}

func (a *UsersAPI) delete(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, a.logger, "user", err)
		return
	}
	respond.NoContent(w)
}

var _ UserService = (*service.Users)(nil)
