package api

import (
	"context"

	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/database"
	"commencement-tickets/internal/models"
)

// handlerDeps is everything a request message may touch while it runs on a
// store worker.
type handlerDeps struct {
	store          UserStore
	allowAnonymous bool
	listingChanged func()
}

// message is implemented once per endpoint. R is the JSON response body.
type message[R any] interface {
	Handle(ctx context.Context, d handlerDeps) (R, error)
}

// markerAware messages fall back to the identity marker cookie when the body
// carries no credentials.
type markerAware interface {
	applyMarker(claims *auth.MarkerClaims)
}

type SignUpRequest struct {
	Username    string  `json:"username" example:"alice"`
	Buying      int32   `json:"buying" example:"2"`
	Selling     int32   `json:"selling" example:"0"`
	DisplayName *string `json:"display_name,omitempty" example:"Alice"`
}

func (m SignUpRequest) Handle(ctx context.Context, d handlerDeps) (bool, error) {
	return d.store.Register(ctx, m.Username, m.Buying, m.Selling, m.DisplayName)
}

type GetUsersRequest struct {
	Token    *models.AccessToken `json:"token,omitempty" swaggertype:"string" example:"-4611686018427387904"`
	Username string              `json:"username" example:"alice"`
}

func (m GetUsersRequest) Handle(ctx context.Context, d handlerDeps) ([]models.User, error) {
	if m.Token == nil {
		if !d.allowAnonymous {
			return nil, database.ErrInvalidToken
		}
		return d.store.ListConfirmedAnonymous(ctx)
	}
	return d.store.ListConfirmed(ctx, int64(*m.Token), m.Username)
}

func (m *GetUsersRequest) applyMarker(claims *auth.MarkerClaims) {
	if m.Token != nil {
		return
	}
	token, err := claims.AccessToken()
	if err != nil {
		return
	}
	t := models.AccessToken(token)
	m.Token = &t
	if m.Username == "" {
		m.Username = claims.Username
	}
}

// credentials is the (token, username) pair shared by the mutating requests.
type credentials struct {
	Token    *models.AccessToken `json:"token" swaggertype:"string" example:"-4611686018427387904"`
	Username string              `json:"username" example:"alice"`
}

func (c *credentials) applyMarker(claims *auth.MarkerClaims) {
	if c.Token != nil {
		return
	}
	token, err := claims.AccessToken()
	if err != nil {
		return
	}
	t := models.AccessToken(token)
	c.Token = &t
	if c.Username == "" {
		c.Username = claims.Username
	}
}

func (c credentials) pair() (int64, string, error) {
	if c.Token == nil {
		return 0, "", database.ErrInvalidToken
	}
	return int64(*c.Token), c.Username, nil
}

type ConfirmUserRequest struct {
	credentials
}

func (m ConfirmUserRequest) Handle(ctx context.Context, d handlerDeps) (bool, error) {
	token, username, err := m.pair()
	if err != nil {
		return false, err
	}
	ok, err := d.store.Confirm(ctx, token, username)
	if ok {
		d.listingChanged()
	}
	return ok, err
}

type SetUserRequest struct {
	credentials
	Buying  int32 `json:"buying" example:"0"`
	Selling int32 `json:"selling" example:"1"`
}

func (m SetUserRequest) Handle(ctx context.Context, d handlerDeps) (bool, error) {
	token, username, err := m.pair()
	if err != nil {
		return false, err
	}
	ok, err := d.store.SetListing(ctx, token, username, m.Buying, m.Selling)
	if ok {
		d.listingChanged()
	}
	return ok, err
}

type DeleteUserRequest struct {
	credentials
}

func (m DeleteUserRequest) Handle(ctx context.Context, d handlerDeps) (bool, error) {
	token, username, err := m.pair()
	if err != nil {
		return false, err
	}
	ok, err := d.store.Delete(ctx, token, username)
	if ok {
		d.listingChanged()
	}
	return ok, err
}
