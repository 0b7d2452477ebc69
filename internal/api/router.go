package api

import (
	"net/http"

	"award-registration/internal/config"
	"award-registration/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
)

// NewRouter mounts every route. rdb may be nil, in which case intent
// creation is not rate limited.
func NewRouter(h *Handler, rdb *redis.Client, limits config.RedisConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(h.Logger))
	r.Use(middleware.Recover(h.Logger))
	r.Use(middleware.CORS)

	// Wrong methods on known paths are unknown routes too.
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Method(http.MethodGet, "/", h.Page)
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/offerings", h.GetOfferings)

		r.Group(func(r chi.Router) {
			if rdb != nil {
				r.Use(middleware.RateLimit(rdb, "payment", limits.RateLimit, limits.RateWindow, h.Logger))
			}
			r.Post("/payment", h.CreatePaymentIntent)
		})
		r.Get("/payment/{intentId}/events", h.ConfirmationEvents)
		r.Get("/confirmation/{intentId}/qr", h.ConfirmationQR)

		r.Post("/webhook", h.HandleWebhook)
	})

	h.Logger.Info("ROUTER", "Registration routes registered")
	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}
