package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/service"
)

// BookmarkHandler handles HTTP requests for bookmark operations.
type BookmarkHandler struct {
	service *service.BookmarkService
	logger  *zap.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(svc *service.BookmarkService, logger *zap.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: svc, logger: logger}
}

// HandleCreate handles POST /bookmarks requests.
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req model.CreateBookmarkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.CreateBookmark(r.Context(), p.UserID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /bookmarks requests.
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	bookmarks, err := h.service.ListBookmarks(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmarks)
}

// HandleGet handles GET /bookmarks/{id} requests.
func (h *BookmarkHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetBookmark(r.Context(), p.UserID, id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleEdit handles PATCH /bookmarks/{id} requests.
func (h *BookmarkHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	var req model.EditBookmarkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.EditBookmark(r.Context(), p.UserID, id, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /bookmarks/{id} requests.
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteBookmark(r.Context(), p.UserID, id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid bookmark id"))
		return 0, false
	}
	return id, true
}
