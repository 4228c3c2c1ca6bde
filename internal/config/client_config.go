package config

import "time"

type ClientConfig interface {
	GetAPIBaseURL() string
	GetAPIInternalURL() string
	GetRequestTimeout() time.Duration
	GetRateLimit() float64
	GetRateBurst() int
	GetPageSize() int
}

type Client struct{}

var _ ClientConfig = Client{}

// GetAPIBaseURL is the backend address as seen by browsers.
func (Client) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:4000")
}

// GetAPIInternalURL is the backend address used from server-side code. It
// falls back to the public address.
func (c Client) GetAPIInternalURL() string {
	return GetEnv("API_INTERNAL_URL", c.GetAPIBaseURL())
}

func (Client) GetRequestTimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", 10*time.Second)
}

// GetRateLimit is the outbound request rate in requests per second. Zero
// disables limiting.
func (Client) GetRateLimit() float64 {
	return GetEnvFloat("API_RATE_LIMIT", 0)
}

func (Client) GetRateBurst() int {
	return GetEnvInt("API_RATE_BURST", 10)
}

func (Client) GetPageSize() int {
	return GetEnvInt("PAGE_SIZE", 20)
}
