package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/submission"
)

const maxSubmissionBytes = 1 << 20

type resourcesAPIHandler struct {
	pipeline  *submission.Pipeline
	resources *store.ResourceStore
	tags      *store.TagStore
	logger    *zap.Logger
}

func registerResourceRoutes(r chi.Router, h *resourcesAPIHandler) {
	r.Post("/postResource", h.Submit)
	r.Get("/resources", h.List)
	r.Get("/resources/{resourceId}", h.Get)
	r.Get("/myPost/{userName}", h.ListBySubmitter)
	r.Get("/tags/{resourceId}", h.ListTags)
	r.Get("/resourcesTag/{tag}", h.ListByTag)
}

// Submit runs the submission pipeline and, once the response has been
// flushed, hands the announcement to the background notifier.
// POST /postResource
func (h *resourcesAPIHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", codeBadRequest)
		return
	}
	if !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadRequest, "invalid request body", codeBadRequest)
		return
	}

	var req SubmitResourceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", codeBadRequest)
		return
	}

	tags, err := submission.EffectiveTags(gjson.GetBytes(body, "tags"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.pipeline.Submit(r.Context(), submission.Input{
		Name:          req.Name,
		Author:        req.Author,
		URL:           req.URL,
		ContentType:   req.ContentType,
		Stage:         req.Stage,
		SubmitterName: req.SubmitterName,
		Review:        req.Review,
		ThumbnailURL:  req.ThumbnailURL,
		Tags:          tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSubmissionIncomplete):
			writeError(w, http.StatusInternalServerError, "submission incomplete", codeSubmissionIncomplete)
		case isValidation(err):
			writeValidationError(w, err)
		default:
			writeError(w, http.StatusInternalServerError, "submission failed", codeInternal)
		}
		return
	}

	resp := toResourceResponse(res.Resource)
	resp.Tags = res.Tags
	resp.Permalink = h.pipeline.Permalink(res.Resource.ID)
	writeJSON(w, http.StatusCreated, SubmitResourceResponse{
		Message:  "resource submitted",
		Resource: resp,
	})
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	h.pipeline.Announce(r.Context(), res)
}

// List returns all resources, newest first.
// GET /resources
func (h *resourcesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.resources.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list resources", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}

	resp := ResourceListResponse{Resources: make([]ResourceResponse, 0, len(resources))}
	for _, res := range resources {
		resp.Resources = append(resp.Resources, toResourceResponse(res))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one resource with its tags.
// GET /resources/{resourceId}
func (h *resourcesAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resourceId")

	res, err := h.resources.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "resource not found", codeNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get resource", zap.String("resource_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}

	tags, err := h.tags.ListByResource(r.Context(), id)
	if err != nil {
		h.logger.Error("list tags", zap.String("resource_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}

	resp := toResourceResponse(res)
	resp.Tags = tags
	resp.Permalink = h.pipeline.Permalink(res.ID)
	writeJSON(w, http.StatusOK, resp)
}

// ListBySubmitter returns the ids of resources a user has submitted.
// GET /myPost/{userName}
func (h *resourcesAPIHandler) ListBySubmitter(w http.ResponseWriter, r *http.Request) {
	ids, err := h.resources.ListIDsBySubmitter(r.Context(), chi.URLParam(r, "userName"))
	if err != nil {
		h.logger.Error("list resources by submitter", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, ResourceIDListResponse{ResourceIDs: ids})
}

// ListTags returns the tags of a resource.
// GET /tags/{resourceId}
func (h *resourcesAPIHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListByResource(r.Context(), chi.URLParam(r, "resourceId"))
	if err != nil {
		h.logger.Error("list tags", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// ListByTag returns the ids of resources carrying a tag.
// GET /resourcesTag/{tag}
func (h *resourcesAPIHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	ids, err := h.tags.ListResourceIDs(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		h.logger.Error("list resources by tag", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, ResourceIDListResponse{ResourceIDs: ids})
}
