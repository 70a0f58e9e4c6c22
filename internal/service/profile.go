package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
	"github.com/mayank-anckr/express-kit/internal/validate"
)

// Profile manages the public-facing user data owned by an account.
type Profile struct {
	profiles    model.ProfileStore
	credentials model.CredentialStore
	storage     model.Storage
	logger      *logger.Logger
}

func NewProfile(profiles model.ProfileStore, credentials model.CredentialStore, storage model.Storage, logger *logger.Logger) *Profile {
	return &Profile{
		profiles:    profiles,
		credentials: credentials,
		storage:     storage,
		logger:      logger,
	}
}

// Update replaces the mutable profile fields for the given account key.
func (s *Profile) Update(ctx context.Context, key uuid.UUID, username, email, image string) error {
	if !validate.Identity(email) {
		return model.NewInvalidInput("invalid email")
	}
	if !validate.Username(username) {
		return model.NewInvalidInput("invalid username")
	}

	err := s.profiles.Update(ctx, model.Profile{
		AccountKey: key,
		Username:   username,
		Email:      email,
		Image:      image,
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFound("no user found")
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile service: profile updated", "account_key", key)

	return nil
}

// GetByAccountKey returns a single profile.
func (s *Profile) GetByAccountKey(ctx context.Context, key uuid.UUID) (model.Profile, error) {
	profile, err := s.profiles.GetByAccountKey(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.NewNotFound("no user found")
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetAll returns every profile.
func (s *Profile) GetAll(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, model.NewNotFound("no user found")
	}
	return profiles, nil
}

// ListAccounts returns every account joined with its profile.
func (s *Profile) ListAccounts(ctx context.Context) ([]model.AccountDetail, error) {
	accounts, err := s.credentials.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Delete removes the account credential; dependent profile data is destroyed
// with it. The stored avatar is removed last so a storage failure never
// blocks the account deletion.
func (s *Profile) Delete(ctx context.Context, key uuid.UUID) error {
	profile, err := s.profiles.GetByAccountKey(ctx, key)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	err = s.credentials.Delete(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFound("no user found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if profile.Image != "" {
		if err := s.storage.Delete(ctx, profile.Image); err != nil {
			s.logger.Error("Profile service: failed to delete avatar object",
				"account_key", key,
				"object_key", profile.Image,
				"error", err.Error())
		}
	}

	s.logger.Info("Profile service: account deleted", "account_key", key)

	return nil
}
