package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/metrics"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// AuthService defines session lifecycle operations.
type AuthService interface {
	SignUp(ctx context.Context, identity, password string) (model.TokenPair, error)
	SignIn(ctx context.Context, identity, password string) (model.TokenPair, error)
	RefreshAccessToken(ctx context.Context, presented string) (model.TokenPair, error)
	ForgotPassword(ctx context.Context, identity, baseURL string) (string, error)
	ResetPassword(ctx context.Context, resetReference, newPassword string) error
}

// Auth handles HTTP endpoints for the session lifecycle.
type Auth struct {
	authService AuthService
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, metrics *metrics.Metrics, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, metrics: metrics, logger: logger}
}

func (h *Auth) countOutcome(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.metrics.CountAuthOperation(operation, result)
}

type credentialsRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// SignUp registers a new account and starts a session.
func (h *Auth) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}

	h.logger.Debug("Auth handler: processing sign-up request", "identity", req.Identity)

	pair, err := h.authService.SignUp(c.Request.Context(), req.Identity, req.Password)
	h.countOutcome("sign_up", err)
	if err != nil {
		h.logger.Error("Auth handler: sign-up failed",
			"identity", req.Identity,
			"error", err.Error())
		handleError(c, err)
		return
	}

	SetTokenCookies(c, pair)
	success(c, http.StatusCreated, "Account created successfully", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// SignIn verifies credentials and starts a session.
func (h *Auth) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}

	h.logger.Debug("Auth handler: processing sign-in request", "identity", req.Identity)

	pair, err := h.authService.SignIn(c.Request.Context(), req.Identity, req.Password)
	h.countOutcome("sign_in", err)
	if err != nil {
		h.logger.Error("Auth handler: sign-in failed",
			"identity", req.Identity,
			"error", err.Error())
		handleError(c, err)
		return
	}

	SetTokenCookies(c, pair)
	success(c, http.StatusOK, "Signed in successfully", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// RefreshAccessToken rotates the refresh token and issues a new pair. The
// refresh token is read from the refreshToken cookie, falling back to the
// x-refresh-token header.
func (h *Auth) RefreshAccessToken(c *gin.Context) {
	presented, err := c.Cookie("refreshToken")
	if err != nil || presented == "" {
		presented = c.GetHeader("x-refresh-token")
	}
	if presented == "" {
		handleError(c, model.NewUnauthorized("refresh token required"))
		return
	}

	pair, err := h.authService.RefreshAccessToken(c.Request.Context(), presented)
	h.countOutcome("refresh", err)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed", "error", err.Error())
		handleError(c, err)
		return
	}

	SetTokenCookies(c, pair)
	success(c, http.StatusOK, "Token refreshed successfully", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

type forgotPasswordRequest struct {
	Identity string `json:"identity"`
	BaseURL  string `json:"baseUrl"`
}

// ForgotPassword issues a reset link for the given identity.
func (h *Auth) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}

	resetURL, err := h.authService.ForgotPassword(c.Request.Context(), req.Identity, req.BaseURL)
	h.countOutcome("forgot_password", err)
	if err != nil {
		h.logger.Error("Auth handler: forgot password failed",
			"identity", req.Identity,
			"error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Reset link sent", gin.H{"resetUrl": resetURL})
}

type resetPasswordRequest struct {
	ResetReference string `json:"resetReference"`
	Password       string `json:"password"`
}

// ResetPassword sets a new password for the account named by the reset
// reference.
func (h *Auth) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.ResetReference, req.Password)
	h.countOutcome("reset_password", err)
	if err != nil {
		h.logger.Error("Auth handler: password reset failed", "error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Password updated successfully", nil)
}

// SignOut clears the session cookies. Previously issued tokens remain valid
// until they expire or the refresh token is rotated.
func (h *Auth) SignOut(c *gin.Context) {
	clearTokenCookies(c)
	success(c, http.StatusOK, "Logged out successfully", nil)
}

// SetTokenCookies sets the session cookies for an issued token pair.
func SetTokenCookies(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("accessToken", pair.AccessToken, 0, "/", "", true, true)
	c.SetCookie("refreshToken", pair.RefreshToken, 0, "/", "", true, true)
}

func clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie("refreshToken", "", -1, "/", "", true, true)
}
