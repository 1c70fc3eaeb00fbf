package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// TokenAcquirer returns cached tokens and performs the client-credentials
// exchange on a cache miss. Concurrent misses for the same registration
// share a single exchange.
type TokenAcquirer struct {
	registrations RegistrationRepository
	store         *TokenStore
	httpClient    *http.Client
	logger        beer.Logger
	group         singleflight.Group
}

// AcquirerOption configures a TokenAcquirer.
type AcquirerOption func(*TokenAcquirer)

// WithTokenHTTPClient sets the client used to reach the token endpoint. It
// must not authenticate its own requests.
func WithTokenHTTPClient(client *http.Client) AcquirerOption {
	return func(a *TokenAcquirer) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithAcquirerLogger sets the logger.
func WithAcquirerLogger(logger beer.Logger) AcquirerOption {
	return func(a *TokenAcquirer) {
		a.logger = logger
	}
}

// NewTokenAcquirer creates an acquirer backed by store.
func NewTokenAcquirer(registrations RegistrationRepository, store *TokenStore, opts ...AcquirerOption) *TokenAcquirer {
	acquirer := &TokenAcquirer{
		registrations: registrations,
		store:         store,
		httpClient:    &http.Client{Timeout: constants.ShortHTTPTimeout},
	}

	for _, opt := range opts {
		opt(acquirer)
	}

	return acquirer
}

// Store returns the backing token store.
func (a *TokenAcquirer) Store() *TokenStore {
	return a.store
}

// Authorize returns a valid token for registrationID, exchanging client
// credentials only when the cache has none. Exchange failures are returned as
// *beer.AuthenticationError and are never retried here.
func (a *TokenAcquirer) Authorize(ctx context.Context, registrationID string) (*Token, error) {
	if token, ok := a.store.Get(registrationID); ok {
		return token, nil
	}

	// The shared exchange outlives any single caller's cancellation; each
	// caller still stops waiting when its own context is done.
	results := a.group.DoChan(registrationID, func() (interface{}, error) {
		if token, ok := a.store.Get(registrationID); ok {
			return token, nil
		}

		token, err := a.exchange(context.WithoutCancel(ctx), registrationID)
		if err != nil {
			return nil, err
		}

		a.store.Put(registrationID, token)

		return token, nil
	})

	select {
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}

		token := *result.Val.(*Token)

		return &token, nil
	case <-ctx.Done():
		return nil, &beer.AuthenticationError{RegistrationID: registrationID, Err: ctx.Err()}
	}
}

// Refresh evicts the cached token and acquires a new one.
func (a *TokenAcquirer) Refresh(ctx context.Context, registrationID string) (*Token, error) {
	a.store.Remove(registrationID)

	return a.Authorize(ctx, registrationID)
}

func (a *TokenAcquirer) exchange(ctx context.Context, registrationID string) (*Token, error) {
	registration, err := a.registrations.FindByID(registrationID)
	if err != nil {
		return nil, &beer.AuthenticationError{RegistrationID: registrationID, Err: err}
	}

	config := &clientcredentials.Config{
		ClientID:     registration.ClientID,
		ClientSecret: registration.ClientSecret,
		TokenURL:     registration.TokenURL,
		Scopes:       registration.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	a.debug("Requesting access token", map[string]interface{}{
		"registration_id": registrationID,
		"token_url":       registration.TokenURL,
	})

	issuedAt := time.Now()

	result, err := config.Token(ctx)
	if err != nil {
		authErr := &beer.AuthenticationError{
			RegistrationID: registrationID,
			Err:            fmt.Errorf("client credentials exchange: %w", err),
		}

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}

		return nil, authErr
	}

	token := newToken(result, issuedAt)

	a.debug("Acquired access token", map[string]interface{}{
		"registration_id": registrationID,
		"token_type":      token.TokenType,
		"expires_at":      token.ExpiresAt,
	})

	return token, nil
}

func (a *TokenAcquirer) debug(msg string, fields map[string]interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, fields)
	}
}
