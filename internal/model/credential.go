package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Credential represents a stored account credential. AccountKey is the stable
// external identifier used in token claims and cross-table references; it is
// distinct from the row ID and never changes once assigned.
type Credential struct {
	ID           uuid.UUID
	Identity     string
	PasswordHash []byte
	AccountKey   uuid.UUID
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountDetail is the documented return shape of CredentialStore.ListAccounts:
// one row per account joined with its profile. No nested lazy loading.
type AccountDetail struct {
	Identity   string
	AccountKey uuid.UUID
	Profile    Profile
}

// CredentialStore defines persistence operations for account credentials.
type CredentialStore interface {
	GetByIdentity(ctx context.Context, identity string) (Credential, error)
	GetByAccountKey(ctx context.Context, key uuid.UUID) (Credential, error)
	Create(ctx context.Context, cred Credential) (Credential, error)
	// SetRefreshToken unconditionally replaces the current refresh token.
	// Used at sign-up and sign-in where no prior value is expected.
	SetRefreshToken(ctx context.Context, key uuid.UUID, token string) error
	// UpdateRefreshToken replaces the current refresh token only if the stored
	// value still equals oldToken. Returns false when the guard fails, which
	// means a concurrent refresh already rotated the token.
	UpdateRefreshToken(ctx context.Context, key uuid.UUID, oldToken, newToken string) (bool, error)
	UpdatePasswordHash(ctx context.Context, key uuid.UUID, hash []byte) error
	Delete(ctx context.Context, key uuid.UUID) error
	ListAccounts(ctx context.Context) ([]AccountDetail, error)
}
