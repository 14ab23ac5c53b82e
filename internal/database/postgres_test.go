package database

import (
	"context"
	"testing"
	"time"

	"commencement-tickets/internal/auth"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newPostgresStore(t *testing.T, notifier *recordingNotifier) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, OpenOptions{Driver: Postgres, Source: connStr, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db, Postgres, Deps{
		Issuer:         auth.NewRandomIssuer(),
		Notifier:       notifier,
		Domain:         "localhost",
		AcquireTimeout: 5 * time.Second,
		Logger:         testLogger(),
	})
}

func TestPostgres_Lifecycle(t *testing.T) {
	n := &recordingNotifier{}
	s := newPostgresStore(t, n)
	ctx := context.Background()

	first := registerAndToken(t, s, n, "first", 1, 0)
	time.Sleep(2 * time.Millisecond)
	second := registerAndToken(t, s, n, "second", 0, 2)

	ok, err := s.Register(ctx, "first", 5, 5, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, n.tokensFor("first"), 1)

	require.Empty(t, usernames(t, s, first, "first"))

	ok, err = s.Confirm(ctx, second, "second")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.Confirm(ctx, first, "first")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"first", "second"}, usernames(t, s, second, "second"))

	ok, err = s.SetListing(ctx, second, "first", 9, 9)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.SetListing(ctx, first, "first", 3, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Delete(ctx, second, "second")
	require.NoError(t, err)
	require.True(t, ok)

	users, err := s.ListConfirmed(ctx, first, "first")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, int32(3), users[0].Buying)

	_, err = s.ListConfirmed(ctx, second, "second")
	require.ErrorIs(t, err, ErrInvalidToken)
}
