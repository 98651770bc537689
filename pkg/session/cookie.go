package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName carries the signed session credential.
const CookieName = "auth_token"

// CookieStore writes and clears the auth_token cookie. Secure is only set in
// production so local development over plain HTTP keeps working.
type CookieStore struct {
	secure bool
	maxAge time.Duration
}

func NewCookieStore(environment string, maxAge time.Duration) *CookieStore {
	return &CookieStore{
		secure: environment == "production",
		maxAge: maxAge,
	}
}

func (s *CookieStore) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(s.maxAge),
	})
}

// Read returns the request's credential value, or "" when the cookie is
// absent. Reading needs no store state, so both middlewares share this.
func Read(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func (s *CookieStore) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
