package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	MessageSuccessRegister        = "user registered successfully"
	MessageSuccessLogin           = "login successful"
	MessageSuccessGetUser         = "success get user"
	MessageSuccessUpdateUser      = "user updated successfully"
	MessageSuccessDeleteUser      = "user deleted successfully"
	MessageSuccessChangePassword  = "password changed successfully"
	MessageSuccessForgotPassword  = "if the email is registered, a reset link has been sent"
	MessageSuccessResetPassword   = "password reset successfully"
	MessageSuccessAddSocialMedia  = "social media added successfully"
	MessageSuccessDeleteSocial    = "social media deleted successfully"
	MessageSuccessGetFavorites    = "success get favorite recipes"
	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedDeleteUser       = "failed to delete user"
	MessageFailedChangePassword   = "failed to change password"
	MessageFailedForgotPassword   = "failed to process password reset"
	MessageFailedResetPassword    = "failed to reset password"
	MessageFailedAddSocialMedia   = "failed to add social media"
	MessageFailedDeleteSocial     = "failed to delete social media"
	MessageFailedGetFavorites     = "failed to get favorite recipes"
	MessageFailedUploadAvatar     = "failed to upload avatar"
	MessageFailedImageTooLarge    = "image size must be less than 5MB"
	MessageFailedUnsupportedImage = "unsupported image format"

	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrSocialMediaNotFound    = fmt.Errorf("social media %w", ErrNotFound)
	ErrEmailAlreadyExists     = fmt.Errorf("email already exists: %w", ErrConflict)
	ErrUsernameAlreadyExists  = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrIncorrectPassword      = errors.New("incorrect password")
	ErrUnauthorizedUserAccess = fmt.Errorf("unauthorized access to user: %w", ErrForbidden)
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username" validate:"required,max=200,username"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"first_name" validate:"max=150"`
		LastName  string `json:"last_name" validate:"max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	// UpdateProfileRequest only changes the fields that are set.
	UpdateProfileRequest struct {
		Username  *string `json:"username" validate:"omitempty,max=200,username"`
		FirstName *string `json:"first_name" validate:"omitempty,max=150"`
		LastName  *string `json:"last_name" validate:"omitempty,max=150"`
		Bio       *string `json:"bio"`
		Phone     *string `json:"phone" validate:"omitempty,max=255"`
		CityID    *string `json:"city_id" validate:"omitempty,uuid"`

		Avatar *ImageFile `json:"-" validate:"-"`
	}

	ChangePasswordRequest struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	SocialMediaRequest struct {
		SocialName  string `json:"social_name" validate:"required,max=255"`
		ProfileName string `json:"profile_name" validate:"max=255"`
		Link        string `json:"link" validate:"required,url,max=255"`
		IconID      string `json:"icon_id" validate:"omitempty,uuid"`
	}

	SocialMediaResponse struct {
		ID          string `json:"id"`
		SocialName  string `json:"social_name"`
		ProfileName string `json:"profile_name"`
		Link        string `json:"link"`
		IconClass   string `json:"icon_class,omitempty"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Email     string    `json:"email,omitempty"`
		Username  string    `json:"username"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Bio       string    `json:"bio"`
		Phone     string    `json:"phone,omitempty"`
		AvatarURL string    `json:"avatar_url"`
		City      string    `json:"city,omitempty"`
		IsStaff   bool      `json:"is_staff"`
		CreatedAt time.Time `json:"created_at"`
	}

	ProfileResponse struct {
		User        UserResponse          `json:"user"`
		SocialMedia []SocialMediaResponse `json:"social_media"`
		Recipes     RecipePage            `json:"recipes"`
	}
)
