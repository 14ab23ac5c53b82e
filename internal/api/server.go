package api

import (
	"context"
	"log/slog"

	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/config"
	"commencement-tickets/internal/dispatch"
	"commencement-tickets/internal/models"
	"commencement-tickets/internal/websocket"
)

// UserStore is the data-access boundary the handlers run against.
type UserStore interface {
	Register(ctx context.Context, username string, buying, selling int32, displayName *string) (bool, error)
	ListConfirmed(ctx context.Context, token int64, username string) ([]models.User, error)
	ListConfirmedAnonymous(ctx context.Context) ([]models.User, error)
	Confirm(ctx context.Context, token int64, username string) (bool, error)
	SetListing(ctx context.Context, token int64, username string, buying, selling int32) (bool, error)
	Delete(ctx context.Context, token int64, username string) (bool, error)
	Ping(ctx context.Context) error
}

type Server struct {
	config *config.Config
	store  UserStore
	pool   *dispatch.Pool
	marker *auth.Marker
	wsHub  *websocket.Hub
	logger *slog.Logger
}

func NewServer(cfg *config.Config, store UserStore, pool *dispatch.Pool, marker *auth.Marker, wsHub *websocket.Hub, logger *slog.Logger) *Server {
	return &Server{
		config: cfg,
		store:  store,
		pool:   pool,
		marker: marker,
		wsHub:  wsHub,
		logger: logger.With("component", "api"),
	}
}

func (s *Server) deps() handlerDeps {
	return handlerDeps{
		store:          s.store,
		allowAnonymous: s.config.Listing.AllowAnonymous,
		listingChanged: s.publishListingChanged,
	}
}

func (s *Server) publishListingChanged() {
	if s.wsHub != nil {
		s.wsHub.PublishListingChanged()
	}
}
