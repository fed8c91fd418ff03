package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"forum_api/internal/model"
	"forum_api/internal/repository"
)

// ProfileService reads and edits user profiles
type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*model.User, error)
	// UpdateProfile overwrites the profile of username. picture may be nil,
	// in which case the stored picture is kept.
	UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest, picture *multipart.FileHeader) error
}

type profileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest, picture *multipart.FileHeader) error {
	owner, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check email owner: %w", err)
	}
	if owner != nil && owner.Username != username {
		return ErrEmailTaken
	}

	if picture != nil {
		if err := validateUpload(picture, pictureExts); err != nil {
			return err
		}
		data, err := readUpload(picture)
		if err != nil {
			return err
		}
		req.ProfilePicture = data
	}

	found, err := s.userRepo.UpdateProfile(ctx, username, req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update profile in repo: %w", err)
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileSizeExceeded
	}
	return data, nil
}
