package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API paths.
const (
	// BeersPath is the collection path of the beer resource.
	BeersPath = "/api/v1/beer"

	// DefaultTokenPath is appended to the root URL when no token URL is set.
	DefaultTokenPath = "/oauth2/token"
)

// Client defaults.
const (
	// DefaultRegistrationID keys the cached token when none is configured.
	DefaultRegistrationID = "beer-client"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "beer-client/1.0.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// DefaultConcurrencyLimit limits concurrent operations.
	DefaultConcurrencyLimit = 3
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// TokenPreviewLength is how many characters of a token are displayed.
	TokenPreviewLength = 12
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	// MaxPageSize is the largest page size the API honors.
	MaxPageSize = 1000
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
