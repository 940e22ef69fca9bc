package auth

import (
	"net/http"
	"time"
)

// SessionMiddleware renews the auth_token cookie once a valid host session
// is past half its lifetime. Requests are never rejected here; host
// operations call Authorize themselves.
func (h *AuthHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || h.cfg.JWTSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		hostID, expires, err := h.parse(cookie.Value)
		if err == nil && time.Until(expires) < TokenDuration/2 {
			if renewed, err := h.GenerateToken(hostID); err == nil {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    renewed,
					Expires:  time.Now().Add(TokenDuration),
					HttpOnly: true,
					Path:     "/",
					SameSite: http.SameSiteLaxMode,
				})
			}
		}
		next.ServeHTTP(w, r)
	})
}
