package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/httpapi/wire"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
)

const (
	codeInternal           = "INTERNAL_ERROR"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	codeInvalidParameter   = "INVALID_PARAMETER"
	codeIdempotencyReuse   = "IDEMPOTENCY_KEY_REUSE"
	contentTypeJSON        = "application/json"
	headerIdempotencyKey   = "Idempotency-Key"
	maxRequestBodyBytes    = 1 << 20
	idempotencyMetaContent = "text/plain"
)

func writeWireError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er wire.ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(map[string]any(details))
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeError maps application errors to their status; anything else is a 500
// and gets logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		writeWireError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "requestId", middleware.GetReqID(r.Context()), "err", err)
	writeWireError(w, r, http.StatusInternalServerError, codeInternal, "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
