package users

import (
	"regexp"
	"strings"

	apperrors "github.com/jrsteele09/go-social-frontend/internal/errors"
)

// Summary is the user record returned alongside tokens at login.
type Summary struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Image    *string `json:"image"`
}

// User is a public profile.
type User struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	Email      string  `json:"email,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Image      *string `json:"image,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
}

// Author is the embedded user shape on posts, comments and notifications.
type Author struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername checks the shape of a username before asking the backend
// whether it is taken:
// - 3 to 30 characters
// - letters, digits and underscores only
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 30 {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "username must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "username may only contain letters, numbers and underscores")
	}
	return nil
}

// Summary trims a profile down to the shape kept in the session.
func (u User) Summary() Summary {
	return Summary{ID: u.ID, Email: u.Email, Username: u.Username, Name: u.Name, Image: u.Image}
}
