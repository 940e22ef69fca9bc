package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "host-1",
		"exp": time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func serve(handler *AuthHandler, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler.SessionMiddleware(next).ServeHTTP(rr, req)
	return rr
}

func renewedCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestSessionMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg)

	t.Run("TokenRenewed", func(t *testing.T) {
		old := signed(t, cfg.JWTSecret, 11*time.Hour)
		rr := serve(handler, &http.Cookie{Name: CookieName, Value: old})

		assert.Equal(t, http.StatusOK, rr.Code)
		c := renewedCookie(rr)
		require.NotNil(t, c)
		assert.NotEqual(t, old, c.Value)

		hostID, err := handler.ParseToken(c.Value)
		require.NoError(t, err)
		assert.Equal(t, "host-1", hostID)
	})

	t.Run("TokenFresh", func(t *testing.T) {
		rr := serve(handler, &http.Cookie{Name: CookieName, Value: signed(t, cfg.JWTSecret, 23*time.Hour)})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, renewedCookie(rr))
	})

	t.Run("InvalidTokenPassesThrough", func(t *testing.T) {
		rr := serve(handler, &http.Cookie{Name: CookieName, Value: signed(t, "other", 1*time.Hour)})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, renewedCookie(rr))
	})

	t.Run("NoCookie", func(t *testing.T) {
		rr := serve(handler, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, renewedCookie(rr))
	})
}
