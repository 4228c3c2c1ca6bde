package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	defaultErrorMessage = "Request failed"
	networkErrorMessage = "Network error"
)

// ErrLoginRequired is returned when a 401 could not be recovered by renewing
// the access token. Callers should send the user to the login page.
var ErrLoginRequired = errors.New("login required")

type ErrorKind int

const (
	// KindHTTP is a non-2xx response from the backend
	KindHTTP ErrorKind = iota
	// KindNetwork is a transport failure; no response was received
	KindNetwork
)

// APIError describes a failed backend call.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Body    []byte
	Err     error
}

func (e *APIError) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an APIError carrying status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindHTTP && apiErr.Status == status
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

func newHTTPError(status int, body []byte) *APIError {
	return &APIError{
		Kind:    KindHTTP,
		Status:  status,
		Message: messageFromBody(body, defaultErrorMessage),
		Body:    body,
	}
}

func newNetworkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: networkErrorMessage,
		Err:     err,
	}
}

// MessageOr returns the backend message of an HTTP APIError, or fallback when
// the backend did not send one.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindHTTP {
		return fallback
	}
	return messageFromBody(apiErr.Body, fallback)
}

func messageFromBody(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return fallback
	}
	return payload.Message
}
