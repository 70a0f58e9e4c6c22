package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mayank-anckr/express-kit/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = `id, identity, password_hash, account_key, refresh_token, created_at, updated_at`

func (r *CredentialRepository) GetByIdentity(ctx context.Context, identity string) (model.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE identity = $1`

	var cred model.Credential
	err := r.db.QueryRow(ctx, query, identity).Scan(
		&cred.ID, &cred.Identity, &cred.PasswordHash, &cred.AccountKey,
		&cred.RefreshToken, &cred.CreatedAt, &cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by identity: %w", err)
	}

	return cred, nil
}

func (r *CredentialRepository) GetByAccountKey(ctx context.Context, key uuid.UUID) (model.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE account_key = $1`

	var cred model.Credential
	err := r.db.QueryRow(ctx, query, key).Scan(
		&cred.ID, &cred.Identity, &cred.PasswordHash, &cred.AccountKey,
		&cred.RefreshToken, &cred.CreatedAt, &cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by account key: %w", err)
	}

	return cred, nil
}

func (r *CredentialRepository) Create(ctx context.Context, cred model.Credential) (model.Credential, error) {
	query := `INSERT INTO credentials (id, identity, password_hash, account_key, refresh_token)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + credentialColumns

	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}

	var saved model.Credential
	err := r.db.QueryRow(ctx, query,
		cred.ID, cred.Identity, cred.PasswordHash, cred.AccountKey, cred.RefreshToken,
	).Scan(
		&saved.ID, &saved.Identity, &saved.PasswordHash, &saved.AccountKey,
		&saved.RefreshToken, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		// Two concurrent sign-ups can both pass the identity lookup; the
		// unique constraint decides the loser here.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Credential{}, model.NewConflict("user already exists")
		}
		return model.Credential{}, fmt.Errorf("failed to create credential: %w", err)
	}

	return saved, nil
}

func (r *CredentialRepository) SetRefreshToken(ctx context.Context, key uuid.UUID, token string) error {
	const query = `UPDATE credentials SET refresh_token = $2, updated_at = NOW() WHERE account_key = $1`

	tag, err := r.db.Exec(ctx, query, key, token)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken is the rotation point: the WHERE clause guards against a
// concurrent refresh using the same presented token, so exactly one of two
// racing refreshes observes rows affected.
func (r *CredentialRepository) UpdateRefreshToken(ctx context.Context, key uuid.UUID, oldToken, newToken string) (bool, error) {
	const query = `UPDATE credentials SET refresh_token = $3, updated_at = NOW()
				   WHERE account_key = $1 AND refresh_token = $2`

	tag, err := r.db.Exec(ctx, query, key, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, key uuid.UUID, hash []byte) error {
	const query = `UPDATE credentials SET password_hash = $2, updated_at = NOW() WHERE account_key = $1`

	tag, err := r.db.Exec(ctx, query, key, hash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, key uuid.UUID) error {
	const query = `DELETE FROM credentials WHERE account_key = $1`

	tag, err := r.db.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) ListAccounts(ctx context.Context) ([]model.AccountDetail, error) {
	const query = `
		SELECT c.identity, c.account_key,
		       p.username, p.email, p.image, p.created_at, p.updated_at
		FROM credentials c
		JOIN profiles p ON p.account_key = c.account_key
		ORDER BY c.created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.AccountDetail
	for rows.Next() {
		var a model.AccountDetail
		err := rows.Scan(
			&a.Identity, &a.AccountKey,
			&a.Profile.Username, &a.Profile.Email, &a.Profile.Image,
			&a.Profile.CreatedAt, &a.Profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		a.Profile.AccountKey = a.AccountKey
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}

	return accounts, nil
}
