package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	achievementin "studysprint/internal/modules/achievement/port/in"
	statsin "studysprint/internal/modules/stats/port/in"
	storein "studysprint/internal/modules/store/port/in"
)

const requestTimeout = 15 * time.Second

// NewRouter exposes the local read API over the store, achievement and stats
// usecases.
func NewRouter(store storein.Usecase, achievements achievementin.Usecase, stats statsin.Usecase, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	r.Use(middleware.Timeout(requestTimeout))

	h := NewHandler(store, achievements, stats)

	r.Get("/health", h.Health)
	r.Get("/snapshot", h.Snapshot)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.ListSessions)
	})
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
	})
	r.Get("/settings", h.Settings)
	r.Get("/profile", h.Profile)
	r.Route("/achievements", func(r chi.Router) {
		r.Get("/", h.ListAchievements)
		r.Post("/refresh", h.RefreshAchievements)
	})
	r.Get("/stats", h.Stats)

	return r
}
