package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-session-api/config"
	"storefront-session-api/services/session"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		CookieName: "storefront-session",
		MaxAge:     3600,
		TTL:        time.Hour,
	}
}

func TestMiddlewareCreatesSessionLazily(t *testing.T) {
	store := session.NewMemoryStore()
	mw := NewSessionMiddleware(testSessionConfig(), store)

	var seen *session.Record
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/cart", nil))

	require.NotNil(t, seen)
	assert.NotEmpty(t, seen.ID)
	assert.NotEmpty(t, rr.Header().Get("Set-Cookie"), "first contact sets the session cookie")

	stored, err := store.Get(context.Background(), seen.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored, "record is persisted after the request")
}

func TestMiddlewareReloadsSessionFromCookie(t *testing.T) {
	store := session.NewMemoryStore()
	mw := NewSessionMiddleware(testSessionConfig(), store)

	var ids []string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := GetSession(r.Context())
		ids = append(ids, rec.ID)
		rec.LoadError = "marker"
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("GET", "/api/cart", nil))

	second := httptest.NewRequest("GET", "/api/cart", nil)
	for _, c := range first.Result().Cookies() {
		second.AddCookie(c)
	}
	var marker string
	handler2 := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := GetSession(r.Context())
		ids = append(ids, rec.ID)
		marker = rec.LoadError
	}))
	handler2.ServeHTTP(httptest.NewRecorder(), second)

	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1], "cookie resolves to the same session")
	assert.Equal(t, "marker", marker, "mutations from the first request were persisted")
}

func TestCookieSecureFlagFollowsConfig(t *testing.T) {
	for _, secure := range []bool{true, false} {
		cfg := testSessionConfig()
		cfg.SecureCookie = secure
		mw := NewSessionMiddleware(cfg, session.NewMemoryStore())

		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/cart", nil))

		cookies := rr.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, secure, cookies[0].Secure, "SecureCookie=%v", secure)
	}
}

func TestMiddlewareTreatsTamperedCookieAsFresh(t *testing.T) {
	store := session.NewMemoryStore()
	mw := NewSessionMiddleware(testSessionConfig(), store)

	var rec *session.Record
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec = GetSession(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: "storefront-session", Value: "forged-garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, rec, "tampering falls back to a fresh session")
	assert.NotEmpty(t, rec.ID)
}

func TestMiddlewareClearsExpiredToken(t *testing.T) {
	store := session.NewMemoryStore()
	mw := NewSessionMiddleware(testSessionConfig(), store)

	expired := time.Now().Add(-time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expired),
	}).SignedString([]byte("upstream-key"))
	require.NoError(t, err)

	// First request stores the (already expired) token on the session.
	seed := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetSession(r.Context()).Token = token
	}))
	first := httptest.NewRecorder()
	seed.ServeHTTP(first, httptest.NewRequest("GET", "/api/cart", nil))

	second := httptest.NewRequest("GET", "/api/cart", nil)
	for _, c := range first.Result().Cookies() {
		second.AddCookie(c)
	}
	var authed bool
	check := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed = GetSession(r.Context()).IsAuthenticated()
	}))
	check.ServeHTTP(httptest.NewRecorder(), second)

	assert.False(t, authed, "expired token is dropped before the handler runs")
}
