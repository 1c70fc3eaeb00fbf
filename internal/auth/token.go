package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// TokenTypeBearer is the only token type the resource API accepts.
const TokenTypeBearer = "Bearer"

// Token is an issued access token. A stored Token is never mutated; a new
// acquisition stores a new value.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	Scope       string    `json:"scope,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
	IssuedAt    time.Time `json:"issued_at,omitzero"`
}

// Valid reports whether the token is usable now with the default buffer.
func (t *Token) Valid() bool {
	return t.ValidAt(time.Now(), constants.TokenExpirationBuffer)
}

// ValidAt reports whether the token is still usable at now with skew of
// headroom. A token without an expiry never expires. When the issue time is
// known the headroom is capped at half the token's lifetime.
func (t *Token) ValidAt(now time.Time, skew time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	if !t.IssuedAt.IsZero() {
		skew = max(min(skew, t.ExpiresAt.Sub(t.IssuedAt)/2), 0)
	}

	return now.Add(skew).Before(t.ExpiresAt)
}

// newToken converts an exchange result received at issuedAt. When the
// server did not send expires_in the expiry is taken from the JWT exp claim,
// if any.
func newToken(tok *oauth2.Token, issuedAt time.Time) *Token {
	token := &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		ExpiresAt:   tok.Expiry,
		IssuedAt:    issuedAt,
	}

	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}

	if token.ExpiresAt.IsZero() {
		token.ExpiresAt = jwtExpiry(tok.AccessToken)
	}

	return token
}

// jwtExpiry reads the exp claim without verifying the signature. Opaque
// tokens yield the zero time.
func jwtExpiry(raw string) time.Time {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(raw, claims)
	if err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}
