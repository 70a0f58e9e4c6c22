package model

import "github.com/google/uuid"

// TokenKind discriminates access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims are the identity claims carried by a signed token.
type TokenClaims struct {
	Identity   string
	AccountKey uuid.UUID
}

// TokenPair is an access/refresh token pair issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenManager generates and validates signed access/refresh tokens.
// Parse checks signature, expiry and kind only; whether a refresh token is
// still the current one for its account is the session manager's concern.
type TokenManager interface {
	GenerateAccessToken(identity string, accountKey uuid.UUID) (string, error)
	GenerateRefreshToken(identity string, accountKey uuid.UUID) (string, error)
	Parse(token string, kind TokenKind) (TokenClaims, error)
}
