package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestRandomIssuer_Distinct(t *testing.T) {
	issuer := NewRandomIssuer()
	seen := make(map[int64]struct{})
	for i := 0; i < 1000; i++ {
		tok, err := issuer.Issue()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "token issued twice")
		seen[tok] = struct{}{}
	}
}

func TestRandomIssuer_UsesSignBit(t *testing.T) {
	issuer := NewRandomIssuer()
	var negative, positive bool
	for i := 0; i < 200 && !(negative && positive); i++ {
		tok, err := issuer.Issue()
		require.NoError(t, err)
		if tok < 0 {
			negative = true
		} else {
			positive = true
		}
	}
	require.True(t, negative, "expected some negative tokens")
	require.True(t, positive, "expected some non-negative tokens")
}

func TestMarker_IssueAndVerify(t *testing.T) {
	m, err := NewMarker("marker_test_secret")
	require.NoError(t, err)

	signed, err := m.Issue("alice", -42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.NotEmpty(t, claims.ID)

	tok, err := claims.AccessToken()
	require.NoError(t, err)
	require.Equal(t, int64(-42), tok)

	other, err := NewMarker("another_secret")
	require.NoError(t, err)
	_, err = other.Verify(signed)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestMarker_RandomSecret(t *testing.T) {
	a, err := NewMarker("")
	require.NoError(t, err)
	b, err := NewMarker("")
	require.NoError(t, err)

	signed, err := a.Issue("bob", 7)
	require.NoError(t, err)

	_, err = a.Verify(signed)
	require.NoError(t, err)
	_, err = b.Verify(signed)
	require.Error(t, err)
}

func TestMarker_FromRequest(t *testing.T) {
	m, err := NewMarker("marker_test_secret")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/get-users", nil)
	_, err = m.FromRequest(req)
	require.ErrorIs(t, err, ErrNoMarker)

	cookie, err := m.Cookie("carol", 99)
	require.NoError(t, err)
	require.Equal(t, MarkerCookieName, cookie.Name)
	require.True(t, cookie.HttpOnly)

	req.AddCookie(cookie)
	claims, err := m.FromRequest(req)
	require.NoError(t, err)
	require.Equal(t, "carol", claims.Username)

	bad := httptest.NewRequest("POST", "/api/get-users", nil)
	bad.AddCookie(&http.Cookie{Name: MarkerCookieName, Value: "carol^99"})
	_, err = m.FromRequest(bad)
	require.Error(t, err)
}

func TestClearCookie(t *testing.T) {
	c := ClearCookie()
	require.Equal(t, MarkerCookieName, c.Name)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}
