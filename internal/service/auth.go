package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
	"github.com/mayank-anckr/express-kit/internal/notify"
	"github.com/mayank-anckr/express-kit/internal/validate"
)

// signInFailedMessage is returned for both unknown identities and wrong
// passwords so responses carry no enumeration signal.
const signInFailedMessage = "invalid email or password"

// Auth is the session manager: it orchestrates sign-up, sign-in, token
// refresh, password reset and the refresh token rotation invariant against
// the credential store and the token manager.
type Auth struct {
	credentials model.CredentialStore
	profiles    model.ProfileStore
	tokens      model.TokenManager
	queue       model.NotificationQueue
	logger      *logger.Logger
}

func NewAuth(
	credentials model.CredentialStore,
	profiles model.ProfileStore,
	tokens model.TokenManager,
	queue model.NotificationQueue,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		credentials: credentials,
		profiles:    profiles,
		tokens:      tokens,
		queue:       queue,
		logger:      logger,
	}
}

// SignUp registers a new account and returns its first token pair.
func (a *Auth) SignUp(ctx context.Context, identity, password string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: starting sign-up", "identity", identity)

	if !validate.Identity(identity) {
		return model.TokenPair{}, model.NewInvalidInput("invalid email")
	}
	if !validate.Password(password) {
		return model.TokenPair{}, model.NewInvalidInput("invalid password")
	}

	_, err := a.credentials.GetByIdentity(ctx, identity)
	if err == nil {
		a.logger.Info("Auth service: identity already registered", "identity", identity)
		return model.TokenPair{}, model.NewConflict("email already registered")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, fmt.Errorf("failed to get credential by identity: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := model.Credential{
		ID:           uuid.New(),
		Identity:     identity,
		PasswordHash: hash,
		AccountKey:   uuid.New(),
	}

	cred, err = a.credentials.Create(ctx, cred)
	if err != nil {
		// A concurrent sign-up with the same identity can win between the
		// lookup above and this insert.
		if model.KindOf(err) == model.KindConflict {
			a.logger.Info("Auth service: identity already registered", "identity", identity)
			return model.TokenPair{}, model.NewConflict("email already registered")
		}
		a.logger.Error("Auth service: failed to create credential",
			"identity", identity,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to create credential: %w", err)
	}

	// The profile row is owned 1:1 by the account key and created here
	// explicitly rather than by a database trigger.
	_, err = a.profiles.Create(ctx, model.Profile{
		AccountKey: cred.AccountKey,
		Email:      identity,
	})
	if err != nil {
		// Roll the credential back so the identity is not stuck half
		// registered: with the credential row alone, retrying sign-up
		// conflicts while every profile operation misses.
		if delErr := a.credentials.Delete(ctx, cred.AccountKey); delErr != nil {
			a.logger.Error("Auth service: failed to roll back credential after profile create",
				"identity", identity,
				"account_key", cred.AccountKey,
				"error", delErr.Error())
		}
		return model.TokenPair{}, fmt.Errorf("failed to create profile: %w", err)
	}

	pair, err := a.issueTokens(ctx, cred.Identity, cred.AccountKey)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.queue.EnqueueEmail(notify.WelcomeEmail(identity))

	a.logger.Info("Auth service: sign-up completed",
		"identity", identity,
		"account_key", cred.AccountKey)

	return pair, nil
}

// SignIn authenticates an existing account and returns a fresh token pair.
func (a *Auth) SignIn(ctx context.Context, identity, password string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: starting sign-in", "identity", identity)

	cred, err := a.credentials.GetByIdentity(ctx, identity)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, model.NewUnauthorized(signInFailedMessage)
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get credential by identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return model.TokenPair{}, model.NewUnauthorized(signInFailedMessage)
	}

	pair, err := a.issueTokens(ctx, cred.Identity, cred.AccountKey)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.logger.Info("Auth service: sign-in completed",
		"identity", identity,
		"account_key", cred.AccountKey)

	return pair, nil
}

// RefreshAccessToken exchanges the presented refresh token for a new pair.
// The presented token must match the stored current value byte-for-byte, and
// the replacement is written with a guarded update so that of two concurrent
// refreshes with the same token exactly one succeeds.
func (a *Auth) RefreshAccessToken(ctx context.Context, presented string) (model.TokenPair, error) {
	claims, err := a.tokens.Parse(presented, model.TokenKindRefresh)
	if err != nil {
		return model.TokenPair{}, model.NewUnauthorized("invalid refresh token")
	}

	cred, err := a.credentials.GetByAccountKey(ctx, claims.AccountKey)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, model.NewUnauthorized("invalid refresh token")
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get credential by account key: %w", err)
	}

	if cred.RefreshToken == nil || *cred.RefreshToken != presented {
		a.logger.Info("Auth service: presented refresh token is not current",
			"account_key", cred.AccountKey)
		return model.TokenPair{}, model.NewUnauthorized("refresh token is expired or used")
	}

	access, err := a.tokens.GenerateAccessToken(cred.Identity, cred.AccountKey)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := a.tokens.GenerateRefreshToken(cred.Identity, cred.AccountKey)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rotated, err := a.credentials.UpdateRefreshToken(ctx, cred.AccountKey, presented, refresh)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !rotated {
		// A concurrent refresh won the race and already rotated the token.
		return model.TokenPair{}, model.NewUnauthorized("refresh token is expired or used")
	}

	a.logger.Info("Auth service: refresh token rotated", "account_key", cred.AccountKey)

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ForgotPassword dispatches a reset link for the given identity and returns
// the link. The reset reference is the permanent account key: the link does
// not expire and is reusable. Known limitation kept for compatibility.
func (a *Auth) ForgotPassword(ctx context.Context, identity, baseURL string) (string, error) {
	cred, err := a.credentials.GetByIdentity(ctx, identity)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.NewNotFound("user not found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential by identity: %w", err)
	}

	resetURL := fmt.Sprintf("%s/?uuid=%s", baseURL, cred.AccountKey)
	a.queue.EnqueueEmail(notify.ResetPasswordEmail(identity, resetURL))

	a.logger.Info("Auth service: reset link dispatched", "identity", identity)

	return resetURL, nil
}

// ResetPassword replaces the password hash for the account referenced by the
// reset link. Existing refresh tokens are not revoked. Known limitation kept
// for compatibility.
func (a *Auth) ResetPassword(ctx context.Context, resetReference, newPassword string) error {
	if !validate.Password(newPassword) {
		return model.NewInvalidInput("invalid password")
	}

	key, err := uuid.Parse(resetReference)
	if err != nil {
		return model.NewUnauthorized("invalid reset reference")
	}

	cred, err := a.credentials.GetByAccountKey(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewUnauthorized("invalid reset reference")
	}
	if err != nil {
		return fmt.Errorf("failed to get credential by account key: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.credentials.UpdatePasswordHash(ctx, cred.AccountKey, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	a.logger.Info("Auth service: password reset", "account_key", cred.AccountKey)

	return nil
}

func (a *Auth) issueTokens(ctx context.Context, identity string, accountKey uuid.UUID) (model.TokenPair, error) {
	access, err := a.tokens.GenerateAccessToken(identity, accountKey)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := a.tokens.GenerateRefreshToken(identity, accountKey)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := a.credentials.SetRefreshToken(ctx, accountKey, refresh); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
