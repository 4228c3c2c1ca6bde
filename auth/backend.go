package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/users"
)

const (
	EndpointLogin    = "/api/auth/login"
	EndpointRegister = "/api/auth/register"
	EndpointRefresh  = "/api/auth/refresh"
	EndpointLogout   = "/api/auth/logout"
)

// Backend is the credential half of the REST API.
type Backend interface {
	Login(ctx context.Context, identifier, password string) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	User users.Summary `json:"user"`
	TokenPair
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResult is either the email verification acknowledgement
// ({message, email}) or, from older backends, the created user.
type RegisterResult struct {
	Message string         `json:"message,omitempty"`
	Email   string         `json:"email,omitempty"`
	User    *users.Summary `json:"user,omitempty"`
}

type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HTTPBackend calls the auth endpoints without credentials.
type HTTPBackend struct {
	client *apiclient.Client
}

var _ Backend = (*HTTPBackend)(nil)

func NewHTTPBackend(client *apiclient.Client) *HTTPBackend {
	return &HTTPBackend{client: client}
}

func (b *HTTPBackend) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	resp, err := apiclient.Post[LoginResponse](ctx, b.client, EndpointLogin, loginRequest{
		EmailOrUsername: identifier,
		Password:        password,
	}, apiclient.SkipAuth())
	if err != nil {
		if isHTTPError(err) {
			return nil, &Error{Kind: ErrInvalidCredentials, Message: apiclient.MessageOr(err, "Login failed"), Err: err}
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response without access token")
	}
	return &resp, nil
}

func (b *HTTPBackend) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	pair, err := apiclient.Post[TokenPair](ctx, b.client, EndpointRefresh, refreshRequest{RefreshToken: refreshToken}, apiclient.SkipAuth())
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("refresh response without access token")
	}
	return &pair, nil
}

func (b *HTTPBackend) Logout(ctx context.Context, refreshToken string) error {
	_, err := apiclient.Post[apiclient.Empty](ctx, b.client, EndpointLogout, refreshRequest{RefreshToken: refreshToken}, apiclient.SkipAuth())
	return err
}

func (b *HTTPBackend) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	result, err := apiclient.Post[RegisterResult](ctx, b.client, EndpointRegister, req, apiclient.SkipAuth())
	if err != nil {
		if isHTTPError(err) {
			return nil, &Error{Kind: ErrRegistrationRejected, Message: apiclient.MessageOr(err, "Registration failed"), Err: err}
		}
		return nil, err
	}
	return &result, nil
}

func isHTTPError(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindHTTP
}
