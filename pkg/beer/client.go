package beer

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// BeersClient exposes the beer resource operations.
type BeersClient interface {
	List(ctx context.Context, filter *Filter) (*Page[Beer], error)
	ListAll(ctx context.Context, filter *Filter) ([]Beer, error)
	Get(ctx context.Context, id uuid.UUID) (*Beer, error)
	Create(ctx context.Context, beer *Beer) (*Beer, error)
	Update(ctx context.Context, beer *Beer) (*Beer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenClient exposes the access token used to authenticate requests.
type TokenClient interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// Client is the top-level API client.
type Client interface {
	Beers() BeersClient
	TokenClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a beer.Client.
//
// # Authentication
//
// When ClientID and ClientSecret are set, every request carries a bearer token
// obtained with the OAuth2 client_credentials grant against TokenURL. Tokens
// are cached per RegistrationID until they expire. When only AccessToken is
// set it is sent as a static bearer token. With neither, requests are sent
// unauthenticated.
//
// # Retries
//
// The client never retries by default. RetryMax enables transport-level
// retries of 5xx/429 responses and connection errors for callers that want
// them; token exchange failures are never retried.
type Config struct {
	// RootURL is the base URL of the API (e.g., "http://localhost:8080").
	RootURL string `validate:"required,url"`

	// ClientID is the OAuth2 client identifier.
	ClientID string `validate:"required_without=AccessToken"`
	// ClientSecret is the OAuth2 client secret used with ClientID.
	ClientSecret string `validate:"required_with=ClientID"`
	// TokenURL is the authorization server's token endpoint.
	TokenURL string `validate:"omitempty,url"`
	// Scopes are requested with every client-credentials exchange.
	Scopes []string
	// RegistrationID keys the cached token. Defaults to "beer-client".
	RegistrationID string

	// AccessToken is used directly as a bearer token when no client
	// credentials are configured.
	AccessToken string

	// HTTPTimeout bounds each HTTP attempt. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax is the number of transport-level retries. Zero disables retries.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// RateLimit caps outbound requests per second. Zero disables limiting.
	RateLimit float64 `validate:"gte=0"`
	// Headers are added to every resource request.
	Headers map[string]string

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Transport overrides the base HTTP transport for both the token endpoint
	// and the resource API.
	Transport http.RoundTripper
}
