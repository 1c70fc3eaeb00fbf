package client

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/fivetwenty-io/beer-client/internal/auth"
	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/internal/http"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the beer.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       beer.Logger

	beers beer.BeersClient
}

// New creates a new Beer API client.
func New(ctx context.Context, config *beer.Config) (*Client, error) {
	if config == nil {
		return nil, beer.ErrConfigRequired
	}

	if config.RootURL == "" {
		return nil, beer.ErrRootURLRequired
	}

	tokenManager := createTokenManager(config)

	return NewWithTokenManager(config, tokenManager)
}

// NewWithTokenManager creates a new Beer API client with a custom token
// manager. A nil manager sends requests unauthenticated.
func NewWithTokenManager(config *beer.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, beer.ErrConfigRequired
	}

	if config.RootURL == "" {
		return nil, beer.ErrRootURLRequired
	}

	httpOpts := createHTTPClientOptions(config)

	// A static token is attached by interceptor; only client-credential
	// managers wrap the transport.
	transportManager := tokenManager
	if static, ok := tokenManager.(*auth.StaticTokenManager); ok {
		transportManager = nil
		httpOpts = append(httpOpts, http.WithInterceptors(createInterceptorChain(config, static)))
	} else {
		httpOpts = append(httpOpts, http.WithInterceptors(createInterceptorChain(config, nil)))
	}

	httpClient := http.NewClient(config.RootURL, transportManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      strings.TrimRight(config.RootURL, "/"),
		logger:       config.Logger,
	}

	client.beers = NewBeersClient(httpClient)

	return client, nil
}

// createTokenManager creates the token manager matching the configured
// credentials.
func createTokenManager(config *beer.Config) auth.TokenManager {
	if config.ClientID != "" && config.ClientSecret != "" {
		return createClientCredentialsTokenManager(config)
	}

	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	return nil
}

// createClientCredentialsTokenManager wires a registration, store and
// acquirer for the configured client.
func createClientCredentialsTokenManager(config *beer.Config) *auth.ClientCredentialsTokenManager {
	registrationID := config.RegistrationID
	if registrationID == "" {
		registrationID = constants.DefaultRegistrationID
	}

	registrations := auth.NewInMemoryRegistrationRepository(&auth.ClientRegistration{
		ID:           registrationID,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     getTokenURL(config),
		Scopes:       config.Scopes,
		GrantType:    auth.GrantTypeClientCredentials,
	})

	acquirerOpts := []auth.AcquirerOption{
		auth.WithTokenHTTPClient(&nethttp.Client{
			Timeout:   constants.ShortHTTPTimeout,
			Transport: config.Transport,
		}),
	}

	if config.Logger != nil {
		acquirerOpts = append(acquirerOpts, auth.WithAcquirerLogger(config.Logger))
	}

	acquirer := auth.NewTokenAcquirer(registrations, auth.NewTokenStore(), acquirerOpts...)

	return auth.NewClientCredentialsTokenManager(acquirer, registrationID)
}

// getTokenURL returns token URL from config or fallback.
func getTokenURL(config *beer.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return strings.TrimRight(config.RootURL, "/") + constants.DefaultTokenPath
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *beer.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Transport != nil {
		httpOpts = append(httpOpts, http.WithTransport(config.Transport))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createInterceptorChain builds the request/response interceptors from config.
func createInterceptorChain(config *beer.Config, static *auth.StaticTokenManager) *beer.InterceptorChain {
	chain := beer.NewInterceptorChain()

	if config.RateLimit > 0 {
		chain.AddRequestInterceptor(beer.RateLimitInterceptor(config.RateLimit))
	}

	if len(config.Headers) > 0 {
		chain.AddRequestInterceptor(beer.HeaderInterceptor(config.Headers))
	}

	if static != nil {
		chain.AddRequestInterceptor(beer.AuthenticationInterceptor(static.GetToken))
	}

	if config.Logger != nil {
		chain.AddRequestInterceptor(beer.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(beer.LoggingResponseInterceptor(config.Logger))
	}

	return chain
}

// Beers implements beer.Client.Beers.
func (c *Client) Beers() beer.BeersClient {
	return c.beers
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// RefreshToken discards the cached token and acquires a new one.
func (c *Client) RefreshToken(ctx context.Context) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	err := c.tokenManager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	return nil
}
