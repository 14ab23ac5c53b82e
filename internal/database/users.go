package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"commencement-tickets/internal/metrics"
	"commencement-tickets/internal/models"
)

const (
	selectUsernameExists = `SELECT 1 FROM users WHERE username = ?`
	selectCredentials    = `SELECT 1 FROM users WHERE access_id = ? AND username = ?`
	insertUser           = `
		INSERT INTO users (access_id, username, display_name, buying, selling, confirmed, created)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`
	selectConfirmed = `
		SELECT access_id, username, display_name, buying, selling, confirmed, created
		FROM users
		WHERE confirmed = 1
		ORDER BY created ASC, username ASC
	`
	updateConfirmed = `UPDATE users SET confirmed = 1 WHERE access_id = ? AND username = ?`
	updateListing   = `UPDATE users SET buying = ?, selling = ? WHERE access_id = ? AND username = ?`
	deleteUser      = `DELETE FROM users WHERE access_id = ? AND username = ?`
)

// insertTimeout bounds the write that follows a delivered token.
const insertTimeout = 10 * time.Second

// Register creates an unconfirmed user and mails it a fresh token. A username
// that already exists is left untouched and reported as success, so a repeat
// sign-up never produces a second token. Concurrent sign-ups for the same
// username share a single attempt, which runs to completion even if the caller
// that started it goes away. Surrounding whitespace is not part of a username.
func (s *Store) Register(ctx context.Context, username string, buying, selling int32, displayName *string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return false, fmt.Errorf("%w: username can't be empty", ErrInvalidInput)
	}

	detached := context.WithoutCancel(ctx)
	ch := s.registrations.DoChan(username, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(detached, s.registerTimeout())
		defer cancel()
		return s.register(flightCtx, username, buying, selling, displayName)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	case <-ctx.Done():
		return false, fmt.Errorf("register: %w", ctx.Err())
	}
}

func (s *Store) registerTimeout() time.Duration {
	return s.acquire + s.sendTimeout + insertTimeout
}

func (s *Store) register(ctx context.Context, username string, buying, selling int32, displayName *string) (bool, error) {
	outcome := "failed"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}()

	err := s.withConn(ctx, "register", func(conn *sql.Conn) error {
		exists, err := s.exists(ctx, conn, selectUsernameExists, username)
		if err != nil {
			return infraError("register", err)
		}
		if exists {
			outcome = "existing"
			return nil
		}

		token, err := s.issuer.Issue()
		if err != nil {
			return infraError("register", err)
		}

		// The record is only written once the token is on its way.
		if err := s.notifier.Send(ctx, s.domain, username, token); err != nil {
			return infraError("register", fmt.Errorf("delivering token: %w", err))
		}

		// A delivered token must be stored even if ctx ends now.
		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
		defer cancel()

		var name sql.NullString
		if displayName != nil {
			name = sql.NullString{String: *displayName, Valid: true}
		}
		_, err = conn.ExecContext(insertCtx, s.dialect.rebind(insertUser),
			token, username, name, buying, selling, time.Now().UTC())
		if err != nil {
			return infraError("register", fmt.Errorf("inserting user: %w", err))
		}

		outcome = "created"
		s.logger.InfoContext(ctx, "user registered", "username", username)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "registration failed", "username", username, "error", err)
		return false, err
	}
	return true, nil
}

// ListConfirmed returns every confirmed user, oldest first, provided that
// (token, username) identifies an existing record.
func (s *Store) ListConfirmed(ctx context.Context, token int64, username string) ([]models.User, error) {
	var users []models.User
	err := s.withConn(ctx, "list users", func(conn *sql.Conn) error {
		ok, err := s.exists(ctx, conn, selectCredentials, token, username)
		if err != nil {
			return infraError("list users", err)
		}
		if !ok {
			return ErrInvalidToken
		}

		users, err = s.listConfirmed(ctx, conn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListConfirmedAnonymous returns the same listing as ListConfirmed with every
// username blanked out.
func (s *Store) ListConfirmedAnonymous(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.withConn(ctx, "list users", func(conn *sql.Conn) error {
		var err error
		users, err = s.listConfirmed(ctx, conn)
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Username = ""
	}
	return users, nil
}

// Confirm marks the record matching (token, username) as confirmed. It reports
// whether exactly one record matched.
func (s *Store) Confirm(ctx context.Context, token int64, username string) (bool, error) {
	ok, err := s.execOne(ctx, "confirm", updateConfirmed, token, username)
	if err == nil {
		metrics.ConfirmationsTotal.WithLabelValues(fmt.Sprint(ok)).Inc()
	}
	return ok, err
}

func (s *Store) SetListing(ctx context.Context, token int64, username string, buying, selling int32) (bool, error) {
	return s.execOne(ctx, "set listing", updateListing, buying, selling, token, username)
}

func (s *Store) Delete(ctx context.Context, token int64, username string) (bool, error) {
	return s.execOne(ctx, "delete user", deleteUser, token, username)
}

func (s *Store) execOne(ctx context.Context, op, query string, args ...any) (bool, error) {
	var affected int64
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, s.dialect.rebind(query), args...)
		if err != nil {
			return infraError(op, err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return infraError(op, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *Store) exists(ctx context.Context, conn *sql.Conn, query string, args ...any) (bool, error) {
	var one int
	err := conn.QueryRowContext(ctx, s.dialect.rebind(query), args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) listConfirmed(ctx context.Context, conn *sql.Conn) ([]models.User, error) {
	rows, err := conn.QueryContext(ctx, s.dialect.rebind(selectConfirmed))
	if err != nil {
		return nil, infraError("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			user      models.User
			name      sql.NullString
			confirmed int
		)
		err := rows.Scan(
			&user.AccessID,
			&user.Username,
			&name,
			&user.Buying,
			&user.Selling,
			&confirmed,
			&user.Created,
		)
		if err != nil {
			return nil, infraError("list users", err)
		}
		if name.Valid {
			user.DisplayName = &name.String
		}
		user.Confirmed = confirmed == 1
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, infraError("list users", err)
	}

	if users == nil {
		return []models.User{}, nil
	}

	return users, nil
}
