//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mayank-anckr/express-kit/internal/model"
	repo "github.com/mayank-anckr/express-kit/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "expresskit_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/expresskit_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createAccount(t *testing.T, ctx context.Context, cr *repo.CredentialRepository, pr *repo.ProfileRepository, identity string) model.Credential {
	t.Helper()

	saved, err := cr.Create(ctx, model.Credential{
		ID:           uuid.New(),
		Identity:     identity,
		PasswordHash: []byte("hash"),
		AccountKey:   uuid.New(),
	})
	require.NoError(t, err)

	_, err = pr.Create(ctx, model.Profile{
		AccountKey: saved.AccountKey,
		Email:      identity,
	})
	require.NoError(t, err)

	return saved
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	cr := repo.NewCredentialRepository(conn)
	pr := repo.NewProfileRepository(conn)
	sr := repo.NewSubscriptionRepository(conn)

	t.Run("credential_repository", func(t *testing.T) {
		saved := createAccount(t, ctx, cr, pr, "user@example.com")

		byIdentity, err := cr.GetByIdentity(ctx, "user@example.com")
		require.NoError(t, err)
		require.Equal(t, saved.AccountKey, byIdentity.AccountKey)
		require.Nil(t, byIdentity.RefreshToken)

		byKey, err := cr.GetByAccountKey(ctx, saved.AccountKey)
		require.NoError(t, err)
		require.Equal(t, "user@example.com", byKey.Identity)

		require.NoError(t, cr.UpdatePasswordHash(ctx, saved.AccountKey, []byte("rehash")))

		byKey, err = cr.GetByAccountKey(ctx, saved.AccountKey)
		require.NoError(t, err)
		require.Equal(t, []byte("rehash"), byKey.PasswordHash)

		_, err = cr.GetByIdentity(ctx, "missing@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)

		// The unique constraint on identity surfaces as a conflict, not as an
		// opaque driver error.
		_, err = cr.Create(ctx, model.Credential{
			ID:           uuid.New(),
			Identity:     "user@example.com",
			PasswordHash: []byte("hash"),
			AccountKey:   uuid.New(),
		})
		require.Error(t, err)
		require.Equal(t, model.KindConflict, model.KindOf(err))
	})

	t.Run("refresh_token_rotation", func(t *testing.T) {
		saved := createAccount(t, ctx, cr, pr, "rotate@example.com")

		require.NoError(t, cr.SetRefreshToken(ctx, saved.AccountKey, "first"))

		rotated, err := cr.UpdateRefreshToken(ctx, saved.AccountKey, "first", "second")
		require.NoError(t, err)
		require.True(t, rotated)

		// The guard only matches the current value, so replaying the old
		// token must not rotate again.
		rotated, err = cr.UpdateRefreshToken(ctx, saved.AccountKey, "first", "third")
		require.NoError(t, err)
		require.False(t, rotated)

		cred, err := cr.GetByAccountKey(ctx, saved.AccountKey)
		require.NoError(t, err)
		require.NotNil(t, cred.RefreshToken)
		require.Equal(t, "second", *cred.RefreshToken)
	})

	t.Run("profile_repository", func(t *testing.T) {
		saved := createAccount(t, ctx, cr, pr, "profile@example.com")

		err := pr.Update(ctx, model.Profile{
			AccountKey: saved.AccountKey,
			Username:   "profile user",
			Email:      "profile@example.com",
		})
		require.NoError(t, err)

		require.NoError(t, pr.UpdateImage(ctx, saved.AccountKey, "avatars/p.png"))

		got, err := pr.GetByAccountKey(ctx, saved.AccountKey)
		require.NoError(t, err)
		require.Equal(t, "profile user", got.Username)
		require.Equal(t, "avatars/p.png", got.Image)

		all, err := pr.GetAll(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, all)

		accounts, err := cr.ListAccounts(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, accounts)
	})

	t.Run("delete_cascades_to_profile", func(t *testing.T) {
		saved := createAccount(t, ctx, cr, pr, "cascade@example.com")

		require.NoError(t, cr.Delete(ctx, saved.AccountKey))

		_, err := pr.GetByAccountKey(ctx, saved.AccountKey)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("subscription_repository", func(t *testing.T) {
		saved := createAccount(t, ctx, cr, pr, "subscriber@example.com")

		sub := model.Subscription{
			ID:            "sub_it_1",
			PriceID:       "price_1",
			AccountKey:    saved.AccountKey,
			Status:        "active",
			Currency:      "usd",
			Interval:      "month",
			IntervalCount: 1,
		}
		require.NoError(t, sr.Upsert(ctx, sub))

		require.NoError(t, sr.LinkCustomer(ctx, model.CustomerSubscription{
			CustomerID:     "cus_it_1",
			AccountKey:     saved.AccountKey,
			SubscriptionID: "sub_it_1",
		}))

		require.NoError(t, sr.UpdateStatus(ctx, "sub_it_1", "canceled", true))

		subs, err := sr.GetByAccountKey(ctx, saved.AccountKey)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		require.Equal(t, "canceled", subs[0].Status)
		require.True(t, subs[0].CancelAtPeriodEnd)
	})
}
