package http

import (
	"net/http"
	"time"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

func (cfg CookieConfig) name() string {
	if cfg.Name == "" {
		return "token"
	}
	return cfg.Name
}

// sessionCookie carries token until expiresAt.
func (cfg CookieConfig) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.name(),
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearedCookie removes the session cookie from the browser.
func (cfg CookieConfig) clearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
