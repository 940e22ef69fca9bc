package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg)

	token, err := handler.GenerateToken("host-42")
	require.NoError(t, err)

	t.Run("Cookie", func(t *testing.T) {
		hostID, err := handler.Authorize(context.Background(), AuthInput{Cookie: "theme=dark; auth_token=" + token})
		require.NoError(t, err)
		assert.Equal(t, "host-42", hostID)
	})

	t.Run("Bearer", func(t *testing.T) {
		hostID, err := handler.Authorize(context.Background(), AuthInput{Authorization: "Bearer " + token})
		require.NoError(t, err)
		assert.Equal(t, "host-42", hostID)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := handler.Authorize(context.Background(), AuthInput{})
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewAuthHandler(&config.Config{JWTSecret: "other-secret"})
		forged, err := other.GenerateToken("host-42")
		require.NoError(t, err)
		_, err = handler.Authorize(context.Background(), AuthInput{Authorization: "Bearer " + forged})
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "host-42",
			"exp": time.Now().Add(-time.Minute).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)
		_, err = handler.Authorize(context.Background(), AuthInput{Cookie: "auth_token=" + expired})
		assert.Error(t, err)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
		anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)
		_, err = handler.Authorize(context.Background(), AuthInput{Authorization: "Bearer " + anonymous})
		assert.Error(t, err)
	})

	t.Run("NoSecretConfigured", func(t *testing.T) {
		disabled := NewAuthHandler(&config.Config{})
		_, err := disabled.Authorize(context.Background(), AuthInput{Authorization: "Bearer " + token})
		assert.Error(t, err)
	})
}
