package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/notify"

	"github.com/stretchr/testify/require"
)

type sentToken struct {
	Username string
	Token    int64
}

// recordingNotifier remembers every token it was asked to deliver.
type recordingNotifier struct {
	mu    sync.Mutex
	sent  []sentToken
	err   error
	delay time.Duration
}

func (n *recordingNotifier) Send(ctx context.Context, domain, recipient string, token int64) error {
	if n.delay > 0 {
		time.Sleep(n.delay)
	}
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentToken{Username: recipient, Token: token})
	return nil
}

func (n *recordingNotifier) tokensFor(username string) []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []int64
	for _, s := range n.sent {
		if s.Username == username {
			out = append(out, s.Token)
		}
	}
	return out
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// cancellingNotifier delivers the token and then ends the caller's request,
// as a client disconnecting mid sign-up would.
type cancellingNotifier struct {
	recordingNotifier
	cancel context.CancelFunc
}

func (n *cancellingNotifier) Send(ctx context.Context, domain, recipient string, token int64) error {
	err := n.recordingNotifier.Send(ctx, domain, recipient, token)
	n.cancel()
	return err
}

type failingIssuer struct{}

func (failingIssuer) Issue() (int64, error) {
	return 0, errors.New("entropy exhausted")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, notifier notify.Notifier) *Store {
	t.Helper()

	db, err := Open(context.Background(), OpenOptions{
		Driver:   SQLite,
		Source:   filepath.Join(t.TempDir(), "test.db"),
		MaxConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db, SQLite, Deps{
		Issuer:         auth.NewRandomIssuer(),
		Notifier:       notifier,
		Domain:         "localhost",
		AcquireTimeout: 5 * time.Second,
		Logger:         testLogger(),
	})
}

// registerAndToken signs username up and returns the token it was mailed.
func registerAndToken(t *testing.T, s *Store, n *recordingNotifier, username string, buying, selling int32) int64 {
	t.Helper()
	ok, err := s.Register(context.Background(), username, buying, selling, nil)
	require.NoError(t, err)
	require.True(t, ok)

	tokens := n.tokensFor(username)
	require.Len(t, tokens, 1)
	return tokens[0]
}

func usernames(t *testing.T, s *Store, token int64, username string) []string {
	t.Helper()
	users, err := s.ListConfirmed(context.Background(), token, username)
	require.NoError(t, err)
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
