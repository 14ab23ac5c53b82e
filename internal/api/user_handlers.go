package api

import (
	"context"
	"encoding/json"
	"net/http"

	"commencement-tickets/internal/dispatch"
	"commencement-tickets/internal/models"
)

const maxBodyBytes = 1 << 16

// serveMessage decodes M from the request body, runs it on a store worker and
// writes its result as JSON.
func serveMessage[R any, M message[R]](s *Server, w http.ResponseWriter, r *http.Request) {
	var msg M
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&msg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if c, ok := any(&msg).(markerAware); ok {
		if claims, err := s.marker.FromRequest(r); err == nil {
			c.applyMarker(claims)
		}
	}

	deps := s.deps()
	res, err := dispatch.Submit(r.Context(), s.pool, func(ctx context.Context) (R, error) {
		return msg.Handle(ctx, deps)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// @Summary      Sign up
// @Description  Registers interest in buying or selling tickets and emails a confirmation link. Signing up again with an existing username succeeds without sending another link.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        signUpRequest  body      SignUpRequest  true  "Listing"
// @Success      200            {boolean} bool
// @Failure      400            {string}  string "Invalid request body or empty username"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /api/sign-up [post]
func (s *Server) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	serveMessage[bool, SignUpRequest](s, w, r)
}

// @Summary      List confirmed users
// @Description  Lists confirmed users, oldest registration first. Without credentials the list is anonymous when the server allows it.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        getUsersRequest  body      GetUsersRequest  true  "Credentials"
// @Success      200              {array}   models.User
// @Failure      400              {string}  string "Invalid request body"
// @Failure      401              {string}  string "Invalid token"
// @Failure      500              {string}  string "Internal Server Error"
// @Router       /api/get-users [post]
func (s *Server) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	serveMessage[[]models.User, GetUsersRequest](s, w, r)
}

// @Summary      Update listing
// @Description  Changes the number of tickets the caller is buying and selling.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        setUserRequest  body      SetUserRequest  true  "Credentials and new counts"
// @Success      200             {boolean} bool
// @Failure      400             {string}  string "Invalid request body"
// @Failure      401             {string}  string "Invalid token"
// @Failure      500             {string}  string "Internal Server Error"
// @Router       /api/set-user [post]
func (s *Server) SetUserHandler(w http.ResponseWriter, r *http.Request) {
	serveMessage[bool, SetUserRequest](s, w, r)
}

// @Summary      Delete user
// @Description  Removes the caller's record.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        deleteUserRequest  body      DeleteUserRequest  true  "Credentials"
// @Success      200                {boolean} bool
// @Failure      400                {string}  string "Invalid request body"
// @Failure      401                {string}  string "Invalid token"
// @Failure      500                {string}  string "Internal Server Error"
// @Router       /api/delete-user [post]
func (s *Server) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	serveMessage[bool, DeleteUserRequest](s, w, r)
}

// @Summary      Confirm user (JSON)
// @Description  Confirms a registration with the token from the email link. Used by the web client.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        confirmUserRequest  body      ConfirmUserRequest  true  "Credentials"
// @Success      200                 {boolean} bool
// @Failure      400                 {string}  string "Invalid request body"
// @Failure      500                 {string}  string "Internal Server Error"
// @Router       /api/confirm-user [post]
func (s *Server) ConfirmUserHandler(w http.ResponseWriter, r *http.Request) {
	serveMessage[bool, ConfirmUserRequest](s, w, r)
}
