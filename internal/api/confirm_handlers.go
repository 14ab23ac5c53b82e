package api

import (
	"context"
	"net/http"

	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/dispatch"
	"commencement-tickets/internal/models"
)

// @Summary      Confirm registration
// @Description  Target of the emailed link. Confirms the user, sets the identity marker cookie on success and always redirects to the landing page, so the response never reveals whether a username exists.
// @Tags         users
// @Param        username  query     string  true  "Username"
// @Param        token     query     string  true  "Token from the email"
// @Success      302       {null}    nil     "Redirect to the landing page"
// @Router       /api/confirm [get]
func (s *Server) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	cookie := auth.ClearCookie()

	query := r.URL.Query()
	username := query.Get("username")
	token, err := models.ParseAccessToken(query.Get("token"))

	if err == nil && username != "" {
		req := ConfirmUserRequest{credentials{Token: &token, Username: username}}
		deps := s.deps()
		ok, err := dispatch.Submit(r.Context(), s.pool, func(ctx context.Context) (bool, error) {
			return req.Handle(ctx, deps)
		})
		switch {
		case err != nil:
			s.logger.ErrorContext(r.Context(), "confirmation failed", "username", username, "error", err)
		case ok:
			marker, err := s.marker.Cookie(username, int64(token))
			if err != nil {
				s.logger.ErrorContext(r.Context(), "failed to issue identity marker", "username", username, "error", err)
				break
			}
			cookie = marker
		}
	}

	http.SetCookie(w, cookie)
	http.Redirect(w, r, s.config.LandingPath, http.StatusFound)
}
