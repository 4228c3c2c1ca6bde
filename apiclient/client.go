// Package apiclient executes backend requests with bearer authentication and
// a single token renewal on 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Authenticator supplies bearer tokens and renews them after a 401.
//
// RenewToken receives the token the failed request was sent with so that
// callers racing a renewal that already finished reuse its result instead of
// starting another one.
type Authenticator interface {
	CurrentToken(ctx context.Context) (*oauth2.Token, error)
	RenewToken(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error)
}

// Client talks to the backend REST API.
type Client struct {
	env             Environment
	auth            Authenticator
	http            *http.Client
	limiter         *rate.Limiter
	onLoginRequired func(err error)
}

// Response is a fully read backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// New returns a client for env. auth may be nil, in which case every request
// goes out without credentials.
func New(env Environment, auth Authenticator, opts ...Option) *Client {
	c := &Client{
		env:  env,
		auth: auth,
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Environment returns the environment the client was built with.
func (c *Client) Environment() Environment {
	return c.env
}

// Request sends method path with body encoded as JSON (nil sends no body).
//
// A 401 on an authenticated request renews the token once and replays the
// request with the renewed token. A second 401 is returned as an APIError.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	target, err := c.buildURL(path, ro.query)
	if err != nil {
		return nil, err
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	authenticated := !ro.skipAuth && c.auth != nil
	requestID := uuid.NewString()

	var tok *oauth2.Token
	if authenticated {
		if tok, err = c.auth.CurrentToken(ctx); err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
	}

	resp, err := c.send(ctx, method, target, payload, tok, ro.header, requestID)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusUnauthorized && authenticated {
		fresh, err := c.auth.RenewToken(ctx, tok)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			renewalsTotal.WithLabelValues("failed").Inc()
			err = fmt.Errorf("%w: %w", ErrLoginRequired, err)
			log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Token renewal failed")
			if c.onLoginRequired != nil {
				c.onLoginRequired(err)
			}
			return nil, err
		}
		renewalsTotal.WithLabelValues("renewed").Inc()

		if resp, err = c.send(ctx, method, target, payload, fresh, ro.header, requestID); err != nil {
			return nil, err
		}
	}

	if resp.Status < 200 || resp.Status > 299 {
		return nil, newHTTPError(resp.Status, resp.Body)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte, tok *oauth2.Token, header http.Header, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newNetworkError(err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, statusClass(0)).Inc()
		log.Debug().Err(err).Str("method", method).Str("url", target).Msg("Backend request failed")
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, statusClass(0)).Inc()
		return nil, newNetworkError(fmt.Errorf("read response body: %w", err))
	}

	requestsTotal.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()
	log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("Backend request")

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	target := c.env.URL(path)
	if len(query) == 0 {
		return target, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", target, err)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}

// Empty is the result type for calls whose response body is ignored.
type Empty = struct{}

// Do sends the request and decodes a JSON response into T. 204 responses and
// empty bodies yield the zero value.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	resp, err := c.Request(ctx, method, path, body, opts...)
	if err != nil {
		return out, err
	}
	if resp.Status == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return out, nil
}

func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodPost, path, body, opts...)
}

func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodPut, path, body, opts...)
}

func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodPatch, path, body, opts...)
}

func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

// IsLoginRequired reports whether err means the session cannot be renewed.
func IsLoginRequired(err error) bool {
	return errors.Is(err, ErrLoginRequired)
}
