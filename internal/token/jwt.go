package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// Claims represents JWT claims with token type, identity and account key.
// JSON names match the wire format consumed by existing clients.
type Claims struct {
	jwt.RegisteredClaims
	Identity   string    `json:"username"`
	AccountKey uuid.UUID `json:"unique_id_key"`
	TokenType  string    `json:"typ"`
}

// JWT implements model.TokenManager backed by symmetric HMAC.
// The signing secret is fixed at construction; tokens signed with a previous
// secret become unverifiable after a restart with a new one.
type JWT struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and TTLs.
func NewJWT(secretKey string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(identity string, accountKey uuid.UUID) (string, error) {
	return j.generate(identity, accountKey, model.TokenKindAccess, j.accessTTL)
}

// GenerateRefreshToken creates a long-lived refresh token.
func (j *JWT) GenerateRefreshToken(identity string, accountKey uuid.UUID) (string, error) {
	return j.generate(identity, accountKey, model.TokenKindRefresh, j.refreshTTL)
}

func (j *JWT) generate(identity string, accountKey uuid.UUID, kind model.TokenKind, ttl time.Duration) (string, error) {
	if j.secretKey == "" {
		return "", fmt.Errorf("signing secret is not configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Identity:   identity,
		AccountKey: accountKey,
		TokenType:  string(kind),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Parse validates signature, expiry and token type, and extracts the claims.
// It does not consult any store; currentness of refresh tokens is checked by
// the session manager against the persisted value.
func (j *JWT) Parse(tokenString string, kind model.TokenKind) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse %s token: %w", kind, err)
	}
	if !token.Valid {
		return model.TokenClaims{}, fmt.Errorf("%s token is invalid", kind)
	}
	if claims.TokenType != string(kind) {
		return model.TokenClaims{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}

	return model.TokenClaims{
		Identity:   claims.Identity,
		AccountKey: claims.AccountKey,
	}, nil
}
