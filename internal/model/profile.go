package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile holds the public-facing user data owned 1:1 by an account key.
// Image is the object storage key of the uploaded avatar, empty if none.
type Profile struct {
	AccountKey uuid.UUID
	Username   string
	Email      string
	Image      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfileStore defines persistence operations for profiles.
type ProfileStore interface {
	GetByAccountKey(ctx context.Context, key uuid.UUID) (Profile, error)
	GetAll(ctx context.Context) ([]Profile, error)
	Create(ctx context.Context, profile Profile) (Profile, error)
	Update(ctx context.Context, profile Profile) error
	UpdateImage(ctx context.Context, key uuid.UUID, image string) error
	Delete(ctx context.Context, key uuid.UUID) error
}
