package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"maeul/internal/models"
	"maeul/internal/repository"
	"maeul/internal/validation"
)

const (
	maxDisplayNameLength = 15
	maxBlogNameLength    = 20
	maxIntroLength       = 100
)

// UpdateProfileInput carries a profile edit. Nil fields are untouched.
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
	BlogName    *string `json:"blog_name"`
	BlogPicURL  *string `json:"blog_pic_url"`
	UserPicURL  *string `json:"user_pic_url"`
	Intro       *string `json:"intro"`
}

// ProfileService implements blog identity management.
type ProfileService struct {
	users repository.UserRepository
}

// NewProfileService returns a new ProfileService.
func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.users.GetProfileByUserID(ctx, userID)
}

// ByUrlname returns a blog's public profile.
func (s *ProfileService) ByUrlname(ctx context.Context, urlname string) (*models.Profile, error) {
	return s.users.GetProfileByUrlname(ctx, urlname)
}

// UpdateMe edits the caller's profile fields. The blog address is not
// touched here, it has its own one-shot operation.
func (s *ProfileService) UpdateMe(ctx context.Context, userID uint, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.users.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		if *input.DisplayName == "" {
			return nil, models.NewValidationError("Display name is required")
		}
		if utf8.RuneCountInString(*input.DisplayName) > maxDisplayNameLength {
			return nil, models.NewValidationError(fmt.Sprintf("Display name cannot exceed %d characters", maxDisplayNameLength))
		}
		profile.DisplayName = *input.DisplayName
	}
	if input.BlogName != nil {
		if utf8.RuneCountInString(*input.BlogName) > maxBlogNameLength {
			return nil, models.NewValidationError(fmt.Sprintf("Blog name cannot exceed %d characters", maxBlogNameLength))
		}
		profile.BlogName = *input.BlogName
	}
	if input.Intro != nil {
		if utf8.RuneCountInString(*input.Intro) > maxIntroLength {
			return nil, models.NewValidationError(fmt.Sprintf("Introduction cannot exceed %d characters", maxIntroLength))
		}
		profile.Intro = *input.Intro
	}
	if input.BlogPicURL != nil {
		profile.BlogPicURL = *input.BlogPicURL
	}
	if input.UserPicURL != nil {
		profile.UserPicURL = *input.UserPicURL
	}

	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ChangeUrlname changes the caller's blog address. Allowed exactly once
// for the lifetime of the account.
func (s *ProfileService) ChangeUrlname(ctx context.Context, userID uint, urlname string) (*models.Profile, error) {
	if err := validation.ValidateUrlname(urlname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.users.ChangeUrlname(ctx, userID, urlname); err != nil {
		return nil, err
	}
	return s.users.GetProfileByUserID(ctx, userID)
}
