package session

import (
	"io"
	"net/http"
)

// Transport is an http.RoundTripper that attaches the bearer token and
// transparently recovers from access-token expiry: on a 401 it refreshes
// once and re-issues the original request with the new token. A second
// 401, or a failed refresh, is returned to the caller as-is (the failed
// refresh has already cleared the session).
type Transport struct {
	// Base is the underlying round tripper; nil means
	// http.DefaultTransport.
	Base http.RoundTripper

	// Manager supplies tokens and the refresh path.
	Manager *Manager
}

// NewTransport creates a Transport over the default base.
func NewTransport(manager *Manager) *Transport {
	return &Transport{Manager: manager}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper. Requests without a stored
// token are sent unauthenticated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.Manager.AccessToken()

	attempt := req.Clone(req.Context())
	if token != "" {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(attempt)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || token == "" {
		return resp, err
	}

	// Access token rejected. One refresh, one retry.
	if refreshErr := t.Manager.RefreshTokens(req.Context()); refreshErr != nil {
		// Session is gone; surface the original 401.
		return resp, nil
	}

	retry, err := t.rewind(req)
	if err != nil {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry.Header.Set("Authorization", "Bearer "+t.Manager.AccessToken())
	return t.base().RoundTrip(retry)
}

// rewind clones req with a replayable copy of its body.
func (t *Transport) rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return clone, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}
