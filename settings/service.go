package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"github.com/rs/zerolog/log"
)

const endpointSettings = "/api/users/me/settings"

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Get(ctx context.Context) (*UserSettings, error) {
	us, err := apiclient.Get[UserSettings](ctx, s.client, endpointSettings)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &us, nil
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (*UserSettings, error) {
	if req.PrivacySettings != nil {
		if err := req.PrivacySettings.Validate(); err != nil {
			return nil, err
		}
	}
	us, err := apiclient.Put[UserSettings](ctx, s.client, endpointSettings, req)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return &us, nil
}

// UpdateFunc persists a partial settings update.
type UpdateFunc func(ctx context.Context, req UpdateRequest) (*UserSettings, error)

// Editor holds the settings shown to the user. Changes show up immediately
// and are rolled back if the backend refuses them.
type Editor struct {
	update UpdateFunc

	mu      sync.Mutex
	current UserSettings
}

func NewEditor(initial UserSettings, update UpdateFunc) *Editor {
	return &Editor{current: initial, update: update}
}

func (e *Editor) Apply(ctx context.Context, patch UpdateRequest) error {
	e.mu.Lock()
	prev := e.current
	e.current = prev.Apply(patch)
	e.mu.Unlock()

	saved, err := e.update(ctx, patch)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.current = prev
		log.Error().Err(err).Msg("Failed to update settings, reverted")
		return err
	}
	if saved != nil {
		e.current = *saved
	}
	return nil
}

func (e *Editor) Current() UserSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func errInvalid(field, value string) error {
	return apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid %s %q", field, value)
}
