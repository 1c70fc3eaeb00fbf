package auth

import (
	"errors"
	"fmt"

	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

// GrantTypeClientCredentials is the only supported grant type.
const GrantTypeClientCredentials = "client_credentials"

// Static errors for err113 compliance.
var (
	ErrUnsupportedGrantType = errors.New("unsupported grant type")
	ErrStaticTokenRefresh   = errors.New("a static access token cannot be refreshed")
)

// ClientRegistration describes how to obtain tokens for one client.
type ClientRegistration struct {
	ID           string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	GrantType    string
}

// RegistrationRepository looks up client registrations by ID.
type RegistrationRepository interface {
	FindByID(registrationID string) (*ClientRegistration, error)
}

// InMemoryRegistrationRepository holds registrations loaded at startup.
type InMemoryRegistrationRepository struct {
	registrations map[string]*ClientRegistration
}

// NewInMemoryRegistrationRepository creates a repository from registrations.
// An empty grant type defaults to client_credentials.
func NewInMemoryRegistrationRepository(registrations ...*ClientRegistration) *InMemoryRegistrationRepository {
	repo := &InMemoryRegistrationRepository{
		registrations: make(map[string]*ClientRegistration, len(registrations)),
	}

	for _, registration := range registrations {
		stored := *registration
		if stored.GrantType == "" {
			stored.GrantType = GrantTypeClientCredentials
		}

		repo.registrations[stored.ID] = &stored
	}

	return repo
}

// FindByID implements RegistrationRepository.
func (r *InMemoryRegistrationRepository) FindByID(registrationID string) (*ClientRegistration, error) {
	registration, ok := r.registrations[registrationID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", beer.ErrUnknownRegistration, registrationID)
	}

	if registration.GrantType != GrantTypeClientCredentials {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGrantType, registration.GrantType)
	}

	return registration, nil
}
