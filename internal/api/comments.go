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

type commentsAPIHandler struct {
	comments  *store.CommentStore
	validator *validation.Validator
	logger    *zap.Logger
}

func registerCommentRoutes(r chi.Router, h *commentsAPIHandler) {
	r.Post("/comment", h.Create)
	r.Get("/comments/{resourceId}", h.List)
}

// Create appends a comment to a resource. The text is stored as sent.
// POST /comment
func (h *commentsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", codeBadRequest)
		return
	}
	req.ResourceID = strings.TrimSpace(req.ResourceID)
	req.UserName = strings.TrimSpace(req.UserName)

	if err := h.validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.comments.Append(r.Context(), req.ResourceID, req.UserName, req.Comment)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "resource not found", codeNotFound)
		return
	}
	if err != nil {
		h.logger.Error("append comment", zap.String("resource_id", req.ResourceID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "comment added"})
}

// List returns a resource's comments, oldest first.
// GET /comments/{resourceId}
func (h *commentsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListByResource(r.Context(), chi.URLParam(r, "resourceId"))
	if err != nil {
		h.logger.Error("list comments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}

	resp := CommentListResponse{Comments: make([]CommentResponse, 0, len(comments))}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:         c.ID,
			ResourceID: c.ResourceID,
			UserName:   c.UserName,
			Comment:    c.Comment,
			CreatedAt:  c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
