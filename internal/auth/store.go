package auth

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// TokenStore caches one token per client registration. Each registration
// owns a slot that is replaced atomically, so readers see either the old or
// the new token and never a partial update.
type TokenStore struct {
	slots sync.Map // registration ID -> *atomic.Pointer[Token]
	skew  time.Duration
	now   func() time.Time
}

// StoreOption configures a TokenStore.
type StoreOption func(*TokenStore)

// WithExpirySkew treats tokens expiring within skew as already expired.
func WithExpirySkew(skew time.Duration) StoreOption {
	return func(s *TokenStore) {
		if skew >= 0 {
			s.skew = skew
		}
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *TokenStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenStore creates an empty store.
func NewTokenStore(opts ...StoreOption) *TokenStore {
	store := &TokenStore{
		skew: constants.TokenExpirationBuffer,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *TokenStore) slot(registrationID string) *atomic.Pointer[Token] {
	value, _ := s.slots.LoadOrStore(registrationID, &atomic.Pointer[Token]{})

	return value.(*atomic.Pointer[Token])
}

// Get returns a copy of the cached token for registrationID. Expired or
// nearly expired tokens are reported as absent.
func (s *TokenStore) Get(registrationID string) (*Token, bool) {
	value, ok := s.slots.Load(registrationID)
	if !ok {
		return nil, false
	}

	token := value.(*atomic.Pointer[Token]).Load()
	if !token.ValidAt(s.now(), s.skew) {
		return nil, false
	}

	cached := *token

	return &cached, true
}

// Put replaces the cached token for registrationID.
func (s *TokenStore) Put(registrationID string, token *Token) {
	if token == nil {
		s.Remove(registrationID)

		return
	}

	stored := *token
	s.slot(registrationID).Store(&stored)
}

// Remove evicts the cached token for registrationID.
func (s *TokenStore) Remove(registrationID string) {
	value, ok := s.slots.Load(registrationID)
	if !ok {
		return
	}

	value.(*atomic.Pointer[Token]).Store(nil)
}

// Clear evicts every cached token.
func (s *TokenStore) Clear() {
	s.slots.Range(func(_, value any) bool {
		value.(*atomic.Pointer[Token]).Store(nil)

		return true
	})
}
