package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bookmarkapi/bookmark-api/internal/middleware"
	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/service"
	"github.com/bookmarkapi/bookmark-api/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1MB

type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}

	if err := validation.Struct(dst); err != nil {
		fields := validation.Fields(err)
		if fields == nil {
			fields = map[string]string{}
		}
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: "validation failed", Fields: fields})
		return false
	}

	return true
}

// writeServiceError maps a service error to its HTTP status. Anything that is
// not a service.Error is logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var status int
	switch service.KindOf(err) {
	case service.KindValidation:
		fields := service.FieldsOf(err)
		if fields == nil {
			fields = map[string]string{}
		}
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: service.MessageOf(err), Fields: fields})
		return
	case service.KindAuthentication:
		status = http.StatusUnauthorized
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindForbidden:
		status = http.StatusForbidden
	default:
		logger.Error("request failed",
			zap.String("request_id", requestID(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, status, errorResponse(service.MessageOf(err)))
}

// principal returns the caller set by the guard, writing 401 when absent.
func principal(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
	}
	return p, ok
}

func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
