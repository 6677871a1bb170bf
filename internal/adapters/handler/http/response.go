package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func writeErrorMessage(w http.ResponseWriter, log logrus.FieldLogger, status int, message string) {
	writeJSON(w, log, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// writeError maps a service error onto a status code. Unclassified errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrRemoteCallFailed):
		log.WithError(err).Warn("remote call failed")
		status = http.StatusBadGateway
	default:
		log.WithError(err).Error("request failed")
		writeErrorMessage(w, log, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}
	writeErrorMessage(w, log, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
