package database

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks requests rejected before reaching storage.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidToken means the (token, username) pair matches no record.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInfrastructure wraps pool, connection, transport and unexpected
	// storage failures.
	ErrInfrastructure = errors.New("infrastructure failure")
)

func infraError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInfrastructure, err)
}
