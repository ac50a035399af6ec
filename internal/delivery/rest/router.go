package rest

import (
	"net/http"

	"GlobetrotterService/pkg/server"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты и middleware HTTP API
func NewRouter(h *Handler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(server.LoggingMiddleware(logger))
	r.Use(server.MetricsMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", server.RequestIDHeader},
		ExposedHeaders:   []string{server.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
	})

	r.Route("/destinations", func(r chi.Router) {
		// Статические маршруты регистрируются рядом с {city}; chi отдает им приоритет
		r.Get("/random", h.RandomDestination)
		r.Get("/random-destination", h.RandomDestination)
		r.Get("/game-question", h.GameQuestion)
		r.Post("/", h.CreateDestination)
		r.Post("/bulk-insert", h.BulkInsert)
		r.Post("/verify-answer", h.VerifyAnswer)
		r.Get("/{city}", h.DestinationByCity)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/invite/{username}", h.Invite)
		r.Get("/score", h.Score)
	})

	return r
}
