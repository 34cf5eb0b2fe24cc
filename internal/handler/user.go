package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/service"
)

// UserHandler handles HTTP requests for the caller's profile.
type UserHandler struct {
	service *service.UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// HandleMe handles GET /users/me requests.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetUser(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleEdit handles PATCH /users requests.
func (h *UserHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req model.EditUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.EditUser(r.Context(), p.UserID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
