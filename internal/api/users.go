package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/validation"
)

type usersAPIHandler struct {
	users     *store.UserStore
	validator *validation.Validator
	logger    *zap.Logger
}

func registerUserRoutes(r chi.Router, h *usersAPIHandler) {
	r.Get("/users", h.List)
	r.Post("/users", h.Create)
	r.Get("/users/{id}", h.Get)
}

// List returns all registered users ordered by name.
// GET /users
func (h *usersAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}

	resp := UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create registers a user name.
// POST /users
func (h *usersAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", codeBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	u, err := h.users.Create(r.Context(), req.Name)
	if errors.Is(err, store.ErrUserExists) {
		writeError(w, http.StatusConflict, err.Error(), codeConflict)
		return
	}
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Get returns one user.
// GET /users/{id}
func (h *usersAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found", codeNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}
