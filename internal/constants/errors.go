package constants

import "errors"

// Configuration errors.
var (
	ErrNoRootURL         = errors.New("no API root URL configured, use 'beer configure' or --url")
	ErrNoCredentials     = errors.New("no client credentials or access token configured")
	ErrInvalidJWTFormat  = errors.New("invalid JWT format")
	ErrNoExpirationClaim = errors.New("no expiration claim found")
)

// Validation errors.
var (
	ErrInvalidShowInventory = errors.New("invalid value for --show-inventory")
	ErrInvalidPrice         = errors.New("invalid value for --price")
	ErrNameRequired         = errors.New("--name flag is required")
	ErrStyleRequired        = errors.New("--style flag is required")
	ErrUPCRequired          = errors.New("--upc flag is required")
	ErrNothingToUpdate      = errors.New("no fields to update were provided")
)

// File system errors.
var (
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
	ErrNotRegularFile             = errors.New("path is not a regular file")
)
