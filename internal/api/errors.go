package api

import (
	"context"
	"errors"
	"net/http"

	"commencement-tickets/internal/database"
	"commencement-tickets/internal/dispatch"
)

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, database.ErrInvalidToken):
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	case errors.Is(err, database.ErrInfrastructure):
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	case errors.Is(err, dispatch.ErrQueueFull),
		errors.Is(err, dispatch.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		s.logger.WarnContext(r.Context(), "request not served", "path", r.URL.Path, "error", err)
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
	default:
		s.logger.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
