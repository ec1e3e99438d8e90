package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/heritage/pkg/errors"
)

// StatusCode maps an error to the HTTP status it is served with.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeContentTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeCapture, errors.ErrCodeCaptureEmpty:
		return http.StatusBadGateway
	case errors.ErrCodeExportTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	body := errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)}
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
		body.Error = "internal error"
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", code, "err", err)
	}
	writeJSON(w, code, body)
}
