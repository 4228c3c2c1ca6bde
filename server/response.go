package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/auth"
	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	errorLoginRequired = "login_required"
	errorInvalidInput  = "invalid_request"
	errorUpstream      = "upstream_error"
	errorInternal      = "internal_error"
)

type errorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

// writeError maps errors from the session, the API client and request
// validation onto a JSON error response.
func writeError(w http.ResponseWriter, err error) {
	var authErr *auth.Error
	var apiErr *apiclient.APIError

	switch {
	case apiclient.IsLoginRequired(err),
		apperrors.Is(err, auth.ErrNoRefreshToken),
		apperrors.Is(err, auth.ErrRefreshRejected):
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:    errorLoginRequired,
			Message:  "Session expired, please log in again",
			Redirect: RouteLoginPage,
		})
	case apperrors.As(err, &authErr) && apperrors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: authErr.Error()})
	case apperrors.As(err, &authErr) && apperrors.Is(err, auth.ErrRegistrationRejected):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "registration_rejected", Message: authErr.Error()})
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorInvalidInput, Message: err.Error()})
	case apperrors.As(err, &apiErr) && apiErr.Kind == apiclient.KindHTTP:
		writeJSON(w, apiErr.Status, errorResponse{Error: errorUpstream, Message: apiErr.Message})
	case apperrors.As(err, &apiErr) && apiErr.Kind == apiclient.KindNetwork:
		log.Warn().Err(err).Msg("Backend unreachable")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: errorUpstream, Message: apiErr.Message})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorInternal, Message: "Internal server error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "malformed JSON body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid %s %q", name, r.PathValue(name))
	}
	return id, nil
}

// queryInt reads a positive integer query parameter. A missing value yields
// nil.
func queryInt(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid %s %q", name, raw)
	}
	return &v, nil
}
