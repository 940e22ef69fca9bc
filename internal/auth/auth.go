package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour
)

// AuthHandler verifies host sessions. Tokens are issued by the sign-in
// service with the shared JWT secret; the subject claim is the host id.
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// AuthInput is embedded into every host-facing request.
type AuthInput struct {
	Cookie        string `header:"Cookie" doc:"Session cookie carrying auth_token"`
	Authorization string `header:"Authorization" doc:"Bearer token, alternative to the cookie"`
}

func (in AuthInput) token() string {
	if bearer, ok := strings.CutPrefix(in.Authorization, "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	if in.Cookie == "" {
		return ""
	}
	cookies, err := http.ParseCookie(in.Cookie)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}

func (h *AuthHandler) GenerateToken(hostID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": hostID,
		"exp": time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken validates a host token and returns the host id.
func (h *AuthHandler) ParseToken(tokenString string) (string, error) {
	hostID, _, err := h.parse(tokenString)
	return hostID, err
}

func (h *AuthHandler) parse(tokenString string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", time.Time{}, err
	}

	hostID, err := token.Claims.GetSubject()
	if err != nil {
		return "", time.Time{}, err
	}
	if hostID == "" {
		return "", time.Time{}, fmt.Errorf("token has no subject")
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, fmt.Errorf("token has no expiry")
	}
	return hostID, exp.Time, nil
}

// Authorize returns the calling host's id or a 401.
func (h *AuthHandler) Authorize(ctx context.Context, in AuthInput) (string, error) {
	tokenString := in.token()
	if tokenString == "" {
		return "", huma.Error401Unauthorized("Unauthorized: No token found")
	}
	if h.cfg.JWTSecret == "" {
		return "", huma.Error401Unauthorized("Unauthorized: host sessions are disabled")
	}
	hostID, err := h.ParseToken(tokenString)
	if err != nil {
		return "", huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
	return hostID, nil
}
