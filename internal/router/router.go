package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/femtrack/forum/internal/api"
	mw "github.com/femtrack/forum/internal/middleware"
	"github.com/femtrack/forum/internal/middleware/metrics"
	rl "github.com/femtrack/forum/internal/middleware/ratelimiter"
	"github.com/femtrack/forum/internal/setup"
	"github.com/femtrack/forum/internal/utils"
)

const maxBodyBytes = 1 << 20 // 1 MiB request body cap

// New configures the chi router with all routes of the forum wire contract.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(mw.MaxBodySize(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "Not found."})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		// Non-preflight OPTIONS pass the CORS middleware through; answer
		// them empty like the wire contract says.
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		utils.WriteJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Error: "Method not allowed."})
	})

	r.Handle("/metrics", promhttp.Handler())

	// One bucket per client IP across the three write endpoints.
	limits := deps.Config.RateLimit
	writeLimit := mw.RateLimit(rl.New(limits.RPS, limits.Burst, 1*time.Hour), mw.GetIP)

	h := deps.Handler
	r.Route(deps.Config.BasePath, func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/topics", h.GetTopics)
		r.With(writeLimit).Post("/topics", h.CreateTopic)
		r.Get("/topics/{slug}/posts", h.GetPosts)
		r.With(writeLimit).Post("/topics/{slug}/posts", h.CreatePost)
		r.With(writeLimit).Post("/topics/{slug}/posts/{postId}/replies", h.CreateReply)
	})

	return r
}
