package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Routes wires every endpoint of the service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.With(s.requireMarker).Get("/ws", s.ServeWsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://" + s.config.Domain},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Post("/sign-up", s.SignUpHandler)
		r.Post("/get-users", s.GetUsersHandler)
		r.Post("/set-user", s.SetUserHandler)
		r.Post("/delete-user", s.DeleteUserHandler)
		r.Post("/confirm-user", s.ConfirmUserHandler)
		r.Get("/confirm", s.ConfirmHandler)
	})

	if s.config.Static.Path != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.Static.Path)))
	}

	return r
}

// @Summary      Health check
// @Description  Reports whether the database is reachable.
// @Tags         system
// @Success      200  {string}  string "OK"
// @Failure      503  {string}  string "Database unavailable"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "health check failed", "error", err)
		http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	if s.wsHub == nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	s.wsHub.ServeWs(w, r)
}
