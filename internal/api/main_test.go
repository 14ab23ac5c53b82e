package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/config"
	"commencement-tickets/internal/database"
	"commencement-tickets/internal/dispatch"
	"commencement-tickets/internal/notify"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *Server
	handler  http.Handler
	notifier *notify.DiscardNotifier
	marker   *auth.Marker
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, allowAnonymous bool) *testEnv {
	t.Helper()
	logger := testLogger()

	db, err := database.Open(context.Background(), database.OpenOptions{
		Driver:   database.SQLite,
		Source:   filepath.Join(t.TempDir(), "api.db"),
		MaxConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	notifier, err := notify.NewDiscardNotifier("", logger)
	require.NoError(t, err)

	store := database.NewStore(db, database.SQLite, database.Deps{
		Issuer:         auth.NewRandomIssuer(),
		Notifier:       notifier,
		Domain:         "tickets.example.com",
		AcquireTimeout: 5 * time.Second,
		Logger:         logger,
	})

	marker, err := auth.NewMarker("test-secret")
	require.NoError(t, err)

	pool := dispatch.NewPool(2, 16, logger)
	t.Cleanup(pool.Close)

	cfg := &config.Config{
		Domain:      "tickets.example.com",
		LandingPath: "/",
		Listing:     config.ListingConfig{AllowAnonymous: allowAnonymous},
	}

	server := NewServer(cfg, store, pool, marker, nil, logger)
	return &testEnv{
		server:   server,
		handler:  server.Routes(),
		notifier: notifier,
		marker:   marker,
	}
}

func (e *testEnv) post(t *testing.T, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch p := payload.(type) {
	case string:
		body = bytes.NewBufferString(p)
	default:
		b, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// tokenFor returns the token the most recent confirmation for username carried.
func (e *testEnv) tokenFor(t *testing.T, username string) int64 {
	t.Helper()
	sent := e.notifier.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].Recipient == username {
			return sent[i].Token
		}
	}
	t.Fatalf("no confirmation sent to %q", username)
	return 0
}

// signUp registers and confirms username, returning its token.
func (e *testEnv) signUp(t *testing.T, username string, buying, selling int32, confirm bool) int64 {
	t.Helper()
	rr := e.post(t, "/api/sign-up", SignUpRequest{Username: username, Buying: buying, Selling: selling})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	token := e.tokenFor(t, username)

	if confirm {
		rr = e.post(t, "/api/confirm-user", map[string]any{"token": token, "username": username})
		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, "true", rr.Body.String())
	}
	return token
}

func decodeBool(t *testing.T, rr *httptest.ResponseRecorder) bool {
	t.Helper()
	var v bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func decodeUsers(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var v []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}
