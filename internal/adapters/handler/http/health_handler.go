package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log logrus.FieldLogger
}

func NewHealthHandler(db Pinger, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

type healthResponse struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.WithError(err).Warn("database ping failed")
			writeJSON(w, h.log, http.StatusServiceUnavailable, healthResponse{
				Status:      "Degraded",
				Description: "database unreachable",
			})
			return
		}
	}
	writeJSON(w, h.log, http.StatusOK, healthResponse{
		Status:      "Running",
		Description: "poll management service",
	})
}
