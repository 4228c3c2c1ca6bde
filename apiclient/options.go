package apiclient

import (
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimiter makes every attempt, retries included, wait for the limiter.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLoginRequiredHook is called whenever a request fails with ErrLoginRequired.
func WithLoginRequiredHook(fn func(err error)) Option {
	return func(c *Client) {
		c.onLoginRequired = fn
	}
}

type requestOptions struct {
	skipAuth bool
	query    url.Values
	header   http.Header
}

type RequestOption func(*requestOptions)

// SkipAuth sends the request without credentials and disables the 401 retry.
func SkipAuth() RequestOption {
	return func(o *requestOptions) {
		o.skipAuth = true
	}
}

func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		for k, vs := range q {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Set(key, value)
	}
}
