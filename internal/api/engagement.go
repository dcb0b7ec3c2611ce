package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/studyshelf/internal/metrics"
	"github.com/joestump/studyshelf/internal/store"
)

type engagementAPIHandler struct {
	likes      *store.LikeStore
	favourites *store.FavouriteStore
	logger     *zap.Logger
}

func registerEngagementRoutes(r chi.Router, h *engagementAPIHandler) {
	r.Put("/like/{userId}/{resourceId}", h.Like)
	r.Put("/dislike/{userId}/{resourceId}", h.Unlike)
	r.Get("/hasLiked/{userName}/{resourceId}", h.HasLiked)

	r.Post("/addFav/{userName}/{resourceId}", h.AddFavourite)
	r.Delete("/removeFav/{userId}/{resourceId}", h.RemoveFavourite)
	r.Get("/getFav/{userId}/{resourceId}", h.IsFavourite)
	r.Get("/favourites/{userName}", h.ListFavourites)
}

// Like records that a user likes a resource.
// PUT /like/{userId}/{resourceId}
func (h *engagementAPIHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, resourceID := chi.URLParam(r, "userId"), chi.URLParam(r, "resourceId")

	likes, err := h.likes.Like(r.Context(), user, resourceID)
	if err != nil {
		h.writeToggleError(w, "like", user, resourceID, err)
		return
	}
	metrics.EngagementTotal.WithLabelValues("like", "ok").Inc()
	writeJSON(w, http.StatusOK, LikeResponse{Message: "resource liked", Likes: likes})
}

// Unlike removes a user's like. Unliking a resource that is not liked succeeds
// and leaves the count unchanged.
// PUT /dislike/{userId}/{resourceId}
func (h *engagementAPIHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	user, resourceID := chi.URLParam(r, "userId"), chi.URLParam(r, "resourceId")

	likes, err := h.likes.Unlike(r.Context(), user, resourceID)
	if err != nil {
		h.writeToggleError(w, "unlike", user, resourceID, err)
		return
	}
	metrics.EngagementTotal.WithLabelValues("unlike", "ok").Inc()
	writeJSON(w, http.StatusOK, LikeResponse{Message: "resource unliked", Likes: likes})
}

// HasLiked responds with a bare JSON boolean.
// GET /hasLiked/{userName}/{resourceId}
func (h *engagementAPIHandler) HasLiked(w http.ResponseWriter, r *http.Request) {
	liked, err := h.likes.HasLiked(r.Context(), chi.URLParam(r, "userName"), chi.URLParam(r, "resourceId"))
	if err != nil {
		h.logger.Error("has liked", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, liked)
}

// AddFavourite adds a resource to a user's favourites. Adding twice is a no-op.
// POST /addFav/{userName}/{resourceId}
func (h *engagementAPIHandler) AddFavourite(w http.ResponseWriter, r *http.Request) {
	user, resourceID := chi.URLParam(r, "userName"), chi.URLParam(r, "resourceId")

	if err := h.favourites.Add(r.Context(), user, resourceID); err != nil {
		h.writeToggleError(w, "favourite", user, resourceID, err)
		return
	}
	metrics.EngagementTotal.WithLabelValues("favourite", "ok").Inc()
	writeJSON(w, http.StatusOK, MessageResponse{Message: "added to favourites"})
}

// RemoveFavourite removes a resource from a user's favourites. Removing an
// absent favourite succeeds.
// DELETE /removeFav/{userId}/{resourceId}
func (h *engagementAPIHandler) RemoveFavourite(w http.ResponseWriter, r *http.Request) {
	user, resourceID := chi.URLParam(r, "userId"), chi.URLParam(r, "resourceId")

	if err := h.favourites.Remove(r.Context(), user, resourceID); err != nil {
		h.writeToggleError(w, "unfavourite", user, resourceID, err)
		return
	}
	metrics.EngagementTotal.WithLabelValues("unfavourite", "ok").Inc()
	writeJSON(w, http.StatusOK, MessageResponse{Message: "removed from favourites"})
}

// IsFavourite responds with a bare JSON boolean.
// GET /getFav/{userId}/{resourceId}
func (h *engagementAPIHandler) IsFavourite(w http.ResponseWriter, r *http.Request) {
	fav, err := h.favourites.IsFavourite(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "resourceId"))
	if err != nil {
		h.logger.Error("is favourite", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

// ListFavourites returns the ids of a user's favourite resources.
// GET /favourites/{userName}
func (h *engagementAPIHandler) ListFavourites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favourites.ListResourceIDs(r.Context(), chi.URLParam(r, "userName"))
	if err != nil {
		h.logger.Error("list favourites", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, ResourceIDListResponse{ResourceIDs: ids})
}

// writeToggleError maps a membership mutation failure to a response.
// Anything other than an unknown resource is reported as a conflict.
func (h *engagementAPIHandler) writeToggleError(w http.ResponseWriter, action, user, resourceID string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.EngagementTotal.WithLabelValues(action, "not_found").Inc()
		writeError(w, http.StatusNotFound, "resource not found", codeNotFound)
	case errors.Is(err, store.ErrAlreadyLiked):
		metrics.EngagementTotal.WithLabelValues(action, "conflict").Inc()
		writeError(w, http.StatusConflict, err.Error(), codeConflict)
	default:
		metrics.EngagementTotal.WithLabelValues(action, "error").Inc()
		h.logger.Error(action+" failed",
			zap.String("user", user),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		writeError(w, http.StatusConflict, action+" failed", codeConflict)
	}
}
