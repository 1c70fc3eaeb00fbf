package auth

import (
	"context"
	"fmt"
)

// TokenManager supplies bearer tokens for outgoing requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// ClientCredentialsTokenManager binds a TokenAcquirer to one registration.
type ClientCredentialsTokenManager struct {
	acquirer       *TokenAcquirer
	registrationID string
}

// NewClientCredentialsTokenManager creates a manager for registrationID.
func NewClientCredentialsTokenManager(acquirer *TokenAcquirer, registrationID string) *ClientCredentialsTokenManager {
	return &ClientCredentialsTokenManager{
		acquirer:       acquirer,
		registrationID: registrationID,
	}
}

// RegistrationID returns the registration the manager acquires tokens for.
func (m *ClientCredentialsTokenManager) RegistrationID() string {
	return m.registrationID
}

// Token returns the full cached or freshly acquired token.
func (m *ClientCredentialsTokenManager) Token(ctx context.Context) (*Token, error) {
	return m.acquirer.Authorize(ctx, m.registrationID)
}

// GetToken implements TokenManager.
func (m *ClientCredentialsTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.acquirer.Authorize(ctx, m.registrationID)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken implements TokenManager.
func (m *ClientCredentialsTokenManager) RefreshToken(ctx context.Context) error {
	_, err := m.acquirer.Refresh(ctx, m.registrationID)
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}

	return nil
}

// StaticTokenManager always returns the same pre-issued token.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a manager for a pre-issued token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken implements TokenManager.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

// RefreshToken implements TokenManager. Static tokens cannot be refreshed.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenRefresh
}
