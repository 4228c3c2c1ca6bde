package config

import "time"

type SessionConfig interface {
	GetAccessTokenCookie() string
	GetRefreshTokenCookie() string
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
	GetSecureCookies() bool
	GetCookieKey() string
	GetCredentialStore() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetAccessTokenCookie() string {
	return "auth_token"
}

func (Session) GetRefreshTokenCookie() string {
	return "refresh_token"
}

func (Session) GetDefaultAccessTokenExpiry() time.Duration {
	return GetEnvDuration("ACCESS_TOKEN_TTL", 1*time.Hour)
}

func (Session) GetDefaultRefreshTokenExpiry() time.Duration {
	return GetEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour) // 30 days
}

func (Session) GetSecureCookies() bool {
	return EnvVars{}.IsProduction()
}

// GetCookieKey returns a hex encoded 32 byte key used to seal cookie values.
// Empty leaves cookies unsealed.
func (Session) GetCookieKey() string {
	return GetEnv("COOKIE_KEY", "")
}

// GetCredentialStore selects where tokens are kept: "cookie" or "redis".
func (Session) GetCredentialStore() string {
	return GetEnv("CREDENTIAL_STORE", "cookie")
}
