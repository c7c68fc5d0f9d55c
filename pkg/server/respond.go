package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/observability"
)

// APIError is the error body of every failed request.
type APIError struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func apiError(err error) APIError {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return APIError{Code: code, Message: errors.UserMessage(err)}
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDirection, errors.ErrCodeInvalidGrid,
		errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidCharacters:
		return http.StatusBadRequest
	case errors.ErrCodeFontLoad, errors.ErrCodeNoOutput:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: apiError(err)})
}
