package apiclient

import (
	"strings"
)

// Environment tells the client where the backend lives. Server side code
// usually reaches the backend on an internal address that browsers cannot use.
type Environment struct {
	BaseURL         string
	IsServerContext bool
}

// NewEnvironment picks the internal address for server contexts and the
// public address otherwise.
func NewEnvironment(publicURL, internalURL string, isServerContext bool) Environment {
	base := publicURL
	if isServerContext && internalURL != "" {
		base = internalURL
	}
	return Environment{BaseURL: strings.TrimRight(base, "/"), IsServerContext: isServerContext}
}

// URL resolves path against the base URL. Absolute URLs are returned as is.
func (e Environment) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(e.BaseURL, "/") + path
}
