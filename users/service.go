package users

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-social-frontend/apiclient"
)

const (
	endpointMe         = "/api/auth/me"
	endpointUsers      = "/api/users"
	endpointByUsername = "/api/users/username/"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

type meResponse struct {
	User User `json:"user"`
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context) (*User, error) {
	resp, err := apiclient.Get[meResponse](ctx, s.client, endpointMe)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &resp.User, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := apiclient.Get[User](ctx, s.client, fmt.Sprintf("%s/%d", endpointUsers, id))
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *Service) ByUsername(ctx context.Context, username string) (*User, error) {
	u, err := apiclient.Get[User](ctx, s.client, endpointByUsername+url.PathEscape(username), apiclient.SkipAuth())
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &u, nil
}

// UsernameAvailable reports whether no account uses username.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	_, err := s.ByUsername(ctx, username)
	if apiclient.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
