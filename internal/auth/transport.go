package auth

import (
	"net/http"
)

// Transport is an http.RoundTripper that adds a bearer token to every
// request. A failure to obtain a token aborts the request before it is sent.
// Responses, including 401, are returned unchanged.
type Transport struct {
	// Base is the underlying transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Tokens provides access tokens.
	Tokens TokenManager
}

// NewTransport wraps base with bearer authentication.
func NewTransport(tokens TokenManager, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		Base:   base,
		Tokens: tokens,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.Tokens.GetToken(req.Context())
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}

		return nil, err
	}

	authReq := req.Clone(req.Context())
	authReq.Header.Set("Authorization", "Bearer "+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(authReq)
}
