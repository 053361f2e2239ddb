package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BRO3886/user-search/internal/errors"
	"github.com/BRO3886/user-search/internal/search"
	"github.com/BRO3886/user-search/internal/service"
	"github.com/BRO3886/user-search/internal/types"
	"github.com/go-chi/chi/v5"
)

type UsersHandler struct {
	svc    service.EntityService[*types.User]
	logger *slog.Logger
}

func NewUsersHandler(svc service.EntityService[*types.User], logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		svc:    svc,
		logger: logger.With("component", "http"),
	}
}

func (h *UsersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetAll)
	r.Get("/search", h.Search)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Add)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
	return r
}

// Get GET /api/users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "User id must be an integer", err))
		return
	}

	user, found, err := h.svc.Get(ctx, id)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	if !found {
		h.logger.InfoContext(ctx, "Data not found", "id", id)
		errors.RespondError(w, r, errors.New(errors.ErrNotFound, "Data not found", nil))
		return
	}

	h.logger.InfoContext(ctx, "Data found", "id", user.Id, "user", user.String())
	errors.RespondJSON(w, http.StatusOK, user)
}

// GetAll GET /api/users?from=0&size=20
func (h *UsersHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	from, size, err := pageWindow(r)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	users, err := h.svc.GetAll(r.Context(), from, size)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	h.respondCollection(w, r, users)
}

// Search GET /api/users/search?firstName=Jane&lastName=Doe&age=25
func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, err := userSearchQuery(r)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	users, err := h.svc.Search(r.Context(), search.WithQuery(query))
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	h.respondCollection(w, r, users)
}

// Add POST /api/users
func (h *UsersHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req types.UserAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected.", err))
		return
	}

	user := types.NewUser(req)
	ok, err := h.svc.AddOrUpdate(r.Context(), user)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	h.respondAction(w, r, ok, user, "added")
}

// Update PUT /api/users
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req types.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected.", err))
		return
	}

	user, found, err := h.svc.Get(ctx, req.Id)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	if !found {
		h.logger.InfoContext(ctx, "Data not found", "id", req.Id)
		errors.RespondError(w, r, errors.New(errors.ErrNotFound, "Data not found", nil))
		return
	}

	req.Apply(user)
	ok, err := h.svc.AddOrUpdate(ctx, user)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	h.respondAction(w, r, ok, user, "updated")
}

// Delete DELETE /api/users with the id in the "id" header
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.Header.Get("id"))
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Header id must be an integer", err))
		return
	}

	ok, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	h.respondAction(w, r, ok, id, "deleted")
}

func (h *UsersHandler) respondCollection(w http.ResponseWriter, r *http.Request, users []*types.User) {
	ctx := r.Context()
	if len(users) == 0 {
		h.logger.InfoContext(ctx, "Data not found")
		errors.RespondError(w, r, errors.New(errors.ErrNotFound, "Data not found", nil))
		return
	}

	h.logger.InfoContext(ctx, "Data found", "count", len(users))
	errors.RespondJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) respondAction(w http.ResponseWriter, r *http.Request, ok bool, data any, action string) {
	ctx := r.Context()
	if !ok {
		h.logger.InfoContext(ctx, "Data failed", "action", action, "data", fmt.Sprint(data))
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Data failed when "+action, nil))
		return
	}

	h.logger.InfoContext(ctx, "Data succeeded", "action", action, "data", fmt.Sprint(data))
	errors.RespondJSON(w, http.StatusOK, data)
}
