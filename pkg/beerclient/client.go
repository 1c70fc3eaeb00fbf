package beerclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/beer-client/internal/client"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// New creates a new Beer API client from config. The caller's config is not
// modified.
func New(ctx context.Context, cfg *beer.Config) (beer.Client, error) {
	if cfg == nil {
		return nil, beer.ErrConfigRequired
	}

	if cfg.RootURL == "" {
		return nil, beer.ErrRootURLRequired
	}

	config := *cfg
	config.RootURL = normalizeURL(config.RootURL)
	if config.TokenURL != "" {
		config.TokenURL = normalizeURL(config.TokenURL)
	}

	err := beer.ValidateConfig(&config)
	if err != nil {
		return nil, err
	}

	beerClient, err := client.New(ctx, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return beerClient, nil
}

// normalizeURL trims trailing slashes and defaults the scheme to https.
func normalizeURL(raw string) string {
	normalized := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized
}

// NewWithToken creates a new client that sends token as a static bearer token.
func NewWithToken(ctx context.Context, rootURL, token string) (beer.Client, error) {
	return New(ctx, &beer.Config{
		RootURL:     rootURL,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using the OAuth2 client
// credentials grant against tokenURL.
func NewWithClientCredentials(ctx context.Context, rootURL, tokenURL, clientID, clientSecret string) (beer.Client, error) {
	return New(ctx, &beer.Config{
		RootURL:      rootURL,
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
