package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	// JWTSecret enables token authentication when non-empty.
	JWTSecret []byte
	Log       logrus.FieldLogger
}

func NewHandler(pollHandler *PollHandler, votingItemHandler *VotingItemHandler, healthHandler *HealthHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			if len(cfg.JWTSecret) > 0 {
				r.Use(Authenticate(cfg.JWTSecret, cfg.Log))
			}

			r.Route("/polls", func(r chi.Router) {
				r.Post("/", pollHandler.CreatePoll)
				r.Get("/", pollHandler.ListPolls)
				r.Get("/{id}", pollHandler.GetPoll)
				r.Patch("/{id}", pollHandler.UpdatePoll)
				r.Delete("/{id}", pollHandler.DeletePoll)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Post("/polls", pollHandler.ListMultipleGroupPolls)
				r.Get("/{groupID}/polls", pollHandler.ListGroupPolls)
				r.Delete("/{groupID}/polls", pollHandler.DeleteGroupPolls)
			})

			r.Get("/users/{userID}/polls", pollHandler.ListUserPolls)

			r.Route("/voting-items/{id}/votes", func(r chi.Router) {
				r.Put("/", votingItemHandler.UpdateVoteCount)
				r.Get("/", votingItemHandler.GetVoteCount)
			})
		})
	})

	return otelhttp.NewHandler(r, "pollmanagement")
}
