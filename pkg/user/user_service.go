package user

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/logging"
	"recipe-website/internal/utils"
	"recipe-website/internal/utils/mailing"
	"recipe-website/internal/utils/storage"
	"recipe-website/pkg/jwt"
	"recipe-website/pkg/media"
	"recipe-website/pkg/recipe"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetProfile(ctx context.Context, userID string, page int) (domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		DeleteUser(ctx context.Context, targetID string, requester domain.Requester) error

		AddSocialMedia(ctx context.Context, userID string, req domain.SocialMediaRequest) (domain.SocialMediaResponse, error)
		DeleteSocialMedia(ctx context.Context, socialID string, requester domain.Requester) error
	}

	userService struct {
		userRepository UserRepository
		recipeService  recipe.RecipeService
		jwtService     jwt.JWTService
		storage        storage.Storage
		normalizer     media.Normalizer
		mailer         mailing.Mailer
		validator      *validator.Validate
		appURL         string
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeService recipe.RecipeService,
	jwtService jwt.JWTService,
	storage storage.Storage,
	normalizer media.Normalizer,
	mailer mailing.Mailer,
	validator *validator.Validate,
	appURL string,
) UserService {
	return &userService{
		userRepository: userRepository,
		recipeService:  recipeService,
		jwtService:     jwtService,
		storage:        storage,
		normalizer:     normalizer,
		mailer:         mailer,
		validator:      validator,
		appURL:         strings.TrimRight(appURL, "/"),
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.UserResponse{}, err
	}
	username := strings.ToLower(req.Username)

	exists, err := s.userRepository.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}

	exists, err = s.userRepository.CheckUsernameExists(ctx, username, "")
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrUsernameAlreadyExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  username,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    entities.DefaultAvatar,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("username", username).Msg("user registered")
	return s.toUserResponse(user, true), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.LoginResponse{}, err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrUserNotFound
		}
		return domain.LoginResponse{}, err
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		return domain.LoginResponse{}, domain.ErrIncorrectPassword
	}

	role := domain.RoleUser
	if user.IsStaff {
		role = domain.RoleAdmin
	}

	return domain.LoginResponse{
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), role),
		Role:  role,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return s.toUserResponse(user, true), nil
}

// GetProfile is the public view of a user: no contact details, and only
// approved recipes.
func (s *userService) GetProfile(ctx context.Context, userID string, page int) (domain.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	socials, err := s.userRepository.GetSocialMediaByUser(ctx, userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	recipes, err := s.recipeService.ListByCreator(ctx, userID, false, page)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	res := domain.ProfileResponse{
		User:        s.toUserResponse(user, false),
		SocialMedia: make([]domain.SocialMediaResponse, 0, len(socials)),
		Recipes:     recipes,
	}
	for _, social := range socials {
		res.SocialMedia = append(res.SocialMedia, toSocialMediaResponse(social))
	}
	return res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	verr := domain.NewValidationError()
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		if !errors.As(err, &verr) {
			return domain.UserResponse{}, err
		}
	}
	if msg := media.CheckUpload(req.Avatar); msg != "" {
		verr.Add("avatar", msg)
	}
	if req.CityID != nil && *req.CityID != "" && verr.Fields["city_id"] == "" {
		exists, err := s.userRepository.PlaceExists(ctx, *req.CityID)
		if err != nil {
			return domain.UserResponse{}, err
		}
		if !exists {
			verr.Add("city_id", domain.ErrPlaceNotFound.Error())
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.UserResponse{}, err
	}

	if req.Username != nil {
		username := strings.ToLower(*req.Username)
		exists, err := s.userRepository.CheckUsernameExists(ctx, username, userID)
		if err != nil {
			return domain.UserResponse{}, err
		}
		if exists {
			return domain.UserResponse{}, domain.ErrUsernameAlreadyExists
		}
		user.Username = username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.CityID != nil {
		user.CityID = nil
		if *req.CityID != "" {
			cityID := uuid.MustParse(*req.CityID)
			user.CityID = &cityID
		}
		user.City = nil
	}

	oldAvatar := user.Avatar
	newAvatar := ""
	if req.Avatar != nil {
		key, err := s.storage.UploadFile(ctx, storage.BucketProfileImages, req.Avatar.Filename, req.Avatar.Data)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg(domain.MessageFailedUploadAvatar)
		} else {
			newAvatar = key
			user.Avatar = key
		}
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		s.deleteAvatar(ctx, newAvatar)
		return domain.UserResponse{}, err
	}

	if newAvatar != "" {
		s.deleteAvatar(ctx, oldAvatar)
		s.normalizer.Normalize(ctx, newAvatar, media.AvatarSize)
	}

	return s.Me(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return err
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, req.OldPassword) {
		return domain.ErrIncorrectPassword
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, userID, hash)
}

// ForgotPassword mails a reset link. An unknown email is not an error so
// callers cannot probe for accounts.
func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Ctx(ctx).Info().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(user.ID.String(), utils.PasswordStamp(user.Password))
	if err != nil {
		return err
	}

	body, err := mailing.RenderResetPassword(mailing.ResetPasswordData{
		Username:     user.Username,
		Link:         s.appURL + "/reset-password?token=" + url.QueryEscape(token),
		ValidMinutes: int(jwt.ResetPasswordTTL.Minutes()),
	})
	if err != nil {
		return err
	}

	return s.mailer.SendMail(ctx, user.Email, "Reset your password", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return err
	}

	userID, stamp, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	// The stamp stops matching once the password changes, which makes
	// every token single use.
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if utils.PasswordStamp(user.Password) != stamp {
		return domain.ErrTokenInvalid
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, targetID string, requester domain.Requester) error {
	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return err
	}
	if user.ID.String() != requester.UserID && !requester.IsStaff {
		return domain.ErrUnauthorizedUserAccess
	}

	if err := s.userRepository.DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	s.deleteAvatar(ctx, user.Avatar)

	logging.Ctx(ctx).Info().
		Str("user_id", targetID).
		Str("requester_id", requester.UserID).
		Msg("user deleted")
	return nil
}

func (s *userService) AddSocialMedia(ctx context.Context, userID string, req domain.SocialMediaRequest) (domain.SocialMediaResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.SocialMediaResponse{}, err
	}

	verr := domain.NewValidationError()
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		if !errors.As(err, &verr) {
			return domain.SocialMediaResponse{}, err
		}
	}
	if req.IconID != "" && verr.Fields["icon_id"] == "" {
		exists, err := s.userRepository.IconExists(ctx, req.IconID)
		if err != nil {
			return domain.SocialMediaResponse{}, err
		}
		if !exists {
			verr.Add("icon_id", domain.ErrIconNotFound.Error())
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.SocialMediaResponse{}, err
	}

	social := &entities.SocialMedia{
		UserID:      user.ID,
		SocialName:  req.SocialName,
		ProfileName: req.ProfileName,
		Link:        req.Link,
	}
	if req.IconID != "" {
		iconID := uuid.MustParse(req.IconID)
		social.IconID = &iconID
	}
	if err := s.userRepository.CreateSocialMedia(ctx, social); err != nil {
		return domain.SocialMediaResponse{}, err
	}

	created, err := s.userRepository.GetSocialMediaByID(ctx, social.ID.String())
	if err != nil {
		return domain.SocialMediaResponse{}, err
	}
	return toSocialMediaResponse(created), nil
}

func (s *userService) DeleteSocialMedia(ctx context.Context, socialID string, requester domain.Requester) error {
	if _, err := uuid.Parse(socialID); err != nil {
		return domain.ErrSocialMediaNotFound
	}

	social, err := s.userRepository.GetSocialMediaByID(ctx, socialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSocialMediaNotFound
		}
		return err
	}
	if social.UserID.String() != requester.UserID && !requester.IsStaff {
		return domain.ErrUnauthorizedUserAccess
	}
	return s.userRepository.DeleteSocialMedia(ctx, socialID)
}

func (s *userService) findUser(ctx context.Context, userID string) (*entities.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) deleteAvatar(ctx context.Context, key string) {
	if key == "" || media.IsPlaceholder(key) {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("error deleting avatar")
	}
}

// toUserResponse leaves out contact details unless private is set.
func (s *userService) toUserResponse(user *entities.User, private bool) domain.UserResponse {
	res := domain.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		AvatarURL: s.storage.URL(user.Avatar),
		IsStaff:   user.IsStaff,
		CreatedAt: user.CreatedAt,
	}
	if private {
		res.Email = user.Email
		res.Phone = user.Phone
	}
	if user.City != nil {
		res.City = user.City.City
	}
	return res
}

func toSocialMediaResponse(social *entities.SocialMedia) domain.SocialMediaResponse {
	res := domain.SocialMediaResponse{
		ID:          social.ID.String(),
		SocialName:  social.SocialName,
		ProfileName: social.ProfileName,
		Link:        social.Link,
	}
	if social.Icon != nil {
		res.IconClass = social.Icon.HTMLClass
	}
	return res
}
