package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MarkerCookieName is the cookie set by a successful confirmation.
const MarkerCookieName = "tokenuser"

const markerIssuer = "commencement-tickets"

// MarkerClaims identify a confirmed user. They are a convenience for the
// browser only: the pair they carry is still checked against the store on
// every request.
type MarkerClaims struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	jwt.RegisteredClaims
}

func (c *MarkerClaims) AccessToken() (int64, error) {
	return strconv.ParseInt(c.Token, 10, 64)
}

// Marker signs and verifies identity markers.
type Marker struct {
	secret []byte
}

// NewMarker returns a Marker using secret. An empty secret yields a random
// per-process key, so markers do not survive a restart.
func NewMarker(secret string) (*Marker, error) {
	if secret != "" {
		return &Marker{secret: []byte(secret)}, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate marker key: %w", err)
	}
	return &Marker{secret: key}, nil
}

func (m *Marker) Issue(username string, token int64) (string, error) {
	claims := &MarkerClaims{
		Username: username,
		Token:    strconv.FormatInt(token, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   markerIssuer,
			Subject:  username,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (m *Marker) Verify(tokenString string) (*MarkerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &MarkerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithIssuer(markerIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*MarkerClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}
	if _, err := claims.AccessToken(); err != nil {
		return nil, fmt.Errorf("malformed marker token: %w", err)
	}
	return claims, nil
}

// Cookie builds the marker cookie for a confirmed user.
func (m *Marker) Cookie(username string, token int64) (*http.Cookie, error) {
	value, err := m.Issue(username, token)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     MarkerCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie expires any marker the browser holds.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     MarkerCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

var ErrNoMarker = errors.New("no identity marker")

// FromRequest returns the verified marker carried by r, if any.
func (m *Marker) FromRequest(r *http.Request) (*MarkerClaims, error) {
	c, err := r.Cookie(MarkerCookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoMarker
	}
	return m.Verify(c.Value)
}
