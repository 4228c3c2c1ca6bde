package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// newAccessToken wraps a raw access token. The expiry comes from the JWT exp
// claim when present; the signature is not checked, the backend does that.
func newAccessToken(raw string, defaultTTL time.Duration) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		Expiry:      accessTokenExpiry(raw, defaultTTL),
	}
}

func accessTokenExpiry(raw string, defaultTTL time.Duration) time.Time {
	now := NowTimeFunc()
	fallback := now.Add(defaultTTL)

	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return fallback
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil || !exp.After(now) {
		return fallback
	}
	return exp.Time
}

func ttlUntil(expiry time.Time, fallback time.Duration) time.Duration {
	ttl := expiry.Sub(NowTimeFunc())
	if ttl <= 0 {
		return fallback
	}
	return ttl
}
