package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

const (
	uploadAttempts = 3
	retryBackoff   = 500 * time.Millisecond
)

// File stores and serves user avatars against the object storage backend.
// Storage calls are retried a fixed number of times before giving up.
type File struct {
	profiles model.ProfileStore
	storage  model.Storage
	logger   *logger.Logger
}

func NewFile(profiles model.ProfileStore, storage model.Storage, logger *logger.Logger) *File {
	return &File{
		profiles: profiles,
		storage:  storage,
		logger:   logger,
	}
}

// UploadAvatar stores the file and records its object key on the profile.
// Returns the object key.
func (s *File) UploadAvatar(ctx context.Context, key uuid.UUID, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", model.NewInvalidInput("no file uploaded")
	}

	profile, err := s.profiles.GetByAccountKey(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.NewNotFound("no user found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}

	objectKey := fmt.Sprintf("%s/%s-%s", key, time.Now().UTC().Format(time.RFC3339Nano), filename)

	backoff := retry.WithMaxRetries(uploadAttempts-1, retry.NewConstant(retryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		uploadErr := s.storage.Upload(ctx, objectKey, bytes.NewReader(data), int64(len(data)), contentType)
		if uploadErr != nil {
			s.logger.Error("File service: upload attempt failed",
				"object_key", objectKey,
				"error", uploadErr.Error())
			return retry.RetryableError(uploadErr)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("all attempts to upload the file failed: %w", err)
	}

	if err := s.profiles.UpdateImage(ctx, key, objectKey); err != nil {
		return "", fmt.Errorf("failed to update profile image: %w", err)
	}

	s.cleanupReplacedAvatar(ctx, key, profile.Image)

	s.logger.Info("File service: avatar uploaded",
		"account_key", key,
		"object_key", objectKey)

	return objectKey, nil
}

// cleanupReplacedAvatar removes the previous avatar object once the profile
// points at the new one. Best effort; a stale object is only wasted space.
func (s *File) cleanupReplacedAvatar(ctx context.Context, key uuid.UUID, oldKey string) {
	if oldKey == "" {
		return
	}

	exists, err := s.storage.Exists(ctx, oldKey)
	if err != nil {
		s.logger.Error("File service: failed to check replaced avatar",
			"account_key", key,
			"object_key", oldKey,
			"error", err.Error())
		return
	}
	if !exists {
		return
	}

	if err := s.storage.Delete(ctx, oldKey); err != nil {
		s.logger.Error("File service: failed to delete replaced avatar",
			"account_key", key,
			"object_key", oldKey,
			"error", err.Error())
	}
}

// UploadAvatarBase64 decodes a base64 payload and stores it as the avatar.
func (s *File) UploadAvatarBase64(ctx context.Context, key uuid.UUID, filename, contentType, encoded string) (string, error) {
	if encoded == "" {
		return "", model.NewInvalidInput("no file uploaded")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", model.NewInvalidInput("invalid base64 payload")
	}

	return s.UploadAvatar(ctx, key, filename, contentType, data)
}

// Download is the result of a successful avatar download.
type Download struct {
	Reader      io.ReadCloser
	Name        string
	Size        int64
	ContentType string
}

// DownloadAvatar streams the stored avatar back. The caller must close the
// reader.
func (s *File) DownloadAvatar(ctx context.Context, key uuid.UUID) (Download, error) {
	profile, err := s.profiles.GetByAccountKey(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return Download{}, model.NewNotFound("no user found")
	}
	if err != nil {
		return Download{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.Image == "" {
		return Download{}, model.NewNotFound("no avatar uploaded")
	}

	var reader io.ReadCloser
	var stat model.ObjectStat
	backoff := retry.WithMaxRetries(uploadAttempts-1, retry.NewConstant(retryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var downloadErr error
		reader, stat, downloadErr = s.storage.Download(ctx, profile.Image)
		if downloadErr != nil {
			if errors.Is(downloadErr, model.ErrNotFound) {
				return downloadErr
			}
			s.logger.Error("File service: download attempt failed",
				"object_key", profile.Image,
				"error", downloadErr.Error())
			return retry.RetryableError(downloadErr)
		}
		return nil
	})
	if errors.Is(err, model.ErrNotFound) {
		return Download{}, model.NewNotFound("avatar object not found")
	}
	if err != nil {
		return Download{}, fmt.Errorf("all attempts to download the file failed: %w", err)
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return Download{
		Reader:      reader,
		Name:        objectName(profile.Image),
		Size:        stat.Size,
		ContentType: contentType,
	}, nil
}

// objectName extracts the human-facing file name from an object key.
func objectName(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[i+1:]
		}
	}
	return key
}
