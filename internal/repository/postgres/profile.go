package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mayank-anckr/express-kit/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `account_key, username, email, image, created_at, updated_at`

func (r *ProfileRepository) GetByAccountKey(ctx context.Context, key uuid.UUID) (model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE account_key = $1`

	var p model.Profile
	err := r.db.QueryRow(ctx, query, key).Scan(
		&p.AccountKey, &p.Username, &p.Email, &p.Image, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by account key: %w", err)
	}

	return p, nil
}

func (r *ProfileRepository) GetAll(ctx context.Context) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.AccountKey, &p.Username, &p.Email, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	query := `INSERT INTO profiles (account_key, username, email, image)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + profileColumns

	var saved model.Profile
	err := r.db.QueryRow(ctx, query,
		profile.AccountKey, profile.Username, profile.Email, profile.Image,
	).Scan(
		&saved.AccountKey, &saved.Username, &saved.Email, &saved.Image, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return saved, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile model.Profile) error {
	const query = `UPDATE profiles SET username = $2, email = $3, image = $4, updated_at = NOW()
				   WHERE account_key = $1`

	tag, err := r.db.Exec(ctx, query, profile.AccountKey, profile.Username, profile.Email, profile.Image)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) UpdateImage(ctx context.Context, key uuid.UUID, image string) error {
	const query = `UPDATE profiles SET image = $2, updated_at = NOW() WHERE account_key = $1`

	tag, err := r.db.Exec(ctx, query, key, image)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, key uuid.UUID) error {
	const query = `DELETE FROM profiles WHERE account_key = $1`

	tag, err := r.db.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
