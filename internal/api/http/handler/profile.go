package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// ProfileService defines profile read and write operations.
type ProfileService interface {
	Update(ctx context.Context, key uuid.UUID, username, email, image string) error
	GetByAccountKey(ctx context.Context, key uuid.UUID) (model.Profile, error)
	GetAll(ctx context.Context) ([]model.Profile, error)
	ListAccounts(ctx context.Context) ([]model.AccountDetail, error)
	Delete(ctx context.Context, key uuid.UUID) error
}

// Profile handles HTTP endpoints for profile data.
type Profile struct {
	profileService ProfileService
	logger         *logger.Logger
}

// NewProfile creates a new Profile handler.
func NewProfile(profileService ProfileService, logger *logger.Logger) *Profile {
	return &Profile{profileService: profileService, logger: logger}
}

type profileResponse struct {
	AccountKey string    `json:"accountKey"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toProfileResponse(p model.Profile) profileResponse {
	return profileResponse{
		AccountKey: p.AccountKey.String(),
		Username:   p.Username,
		Email:      p.Email,
		Image:      p.Image,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Image    string `json:"image"`
}

// Update replaces the profile named by the id path parameter.
func (h *Profile) Update(c *gin.Context) {
	key, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewInvalidInput("invalid account key"))
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}

	if err := h.profileService.Update(c.Request.Context(), key, req.Username, req.Email, req.Image); err != nil {
		h.logger.Error("Profile handler: update failed",
			"account_key", key,
			"error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Profile updated successfully", nil)
}

// Get returns the profile named by the id path parameter.
func (h *Profile) Get(c *gin.Context) {
	key, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewInvalidInput("invalid account key"))
		return
	}

	profile, err := h.profileService.GetByAccountKey(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("Profile handler: get failed",
			"account_key", key,
			"error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "", toProfileResponse(profile))
}

// GetAll returns every profile.
func (h *Profile) GetAll(c *gin.Context) {
	profiles, err := h.profileService.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Profile handler: list failed", "error", err.Error())
		handleError(c, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}

	success(c, http.StatusOK, "", out)
}

// ListAccounts returns every account joined with its profile.
func (h *Profile) ListAccounts(c *gin.Context) {
	accounts, err := h.profileService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Profile handler: account list failed", "error", err.Error())
		handleError(c, err)
		return
	}

	type accountResponse struct {
		Identity   string          `json:"identity"`
		AccountKey string          `json:"accountKey"`
		Profile    profileResponse `json:"profile"`
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			Identity:   a.Identity,
			AccountKey: a.AccountKey.String(),
			Profile:    toProfileResponse(a.Profile),
		})
	}

	success(c, http.StatusOK, "", out)
}

// Delete removes the account and profile named by the id path parameter.
func (h *Profile) Delete(c *gin.Context) {
	key, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewInvalidInput("invalid account key"))
		return
	}

	if err := h.profileService.Delete(c.Request.Context(), key); err != nil {
		h.logger.Error("Profile handler: delete failed",
			"account_key", key,
			"error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Profile deleted successfully", nil)
}
