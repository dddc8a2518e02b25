package user

import (
	"context"

	"gorm.io/gorm"

	"recipe-website/entities"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		CheckEmailExists(ctx context.Context, email string) (bool, error)
		CheckUsernameExists(ctx context.Context, username string, excludeID string) (bool, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		UpdatePassword(ctx context.Context, id string, hash string) error
		DeleteUser(ctx context.Context, id string) error
		PlaceExists(ctx context.Context, id string) (bool, error)

		CreateSocialMedia(ctx context.Context, social *entities.SocialMedia) error
		GetSocialMediaByID(ctx context.Context, id string) (*entities.SocialMedia, error)
		GetSocialMediaByUser(ctx context.Context, userID string) ([]*entities.SocialMedia, error)
		DeleteSocialMedia(ctx context.Context, id string) error
		IconExists(ctx context.Context, id string) (bool, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Omit("City", "SocialMedia").Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("City").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CheckUsernameExists(ctx context.Context, username string, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entities.User{}).Where("username = ?", username)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Omit("City", "SocialMedia").Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, hash string) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser removes the user and everything they own except recipes,
// which stay published without a creator.
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("creator_id = ?", id).
			UpdateColumn("creator_id", nil).Error; err != nil {
			return err
		}

		owned := []any{
			&entities.Review{},
			&entities.RecipeFavorite{},
			&entities.SocialMedia{},
		}
		for _, model := range owned {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&entities.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) PlaceExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Place{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CreateSocialMedia(ctx context.Context, social *entities.SocialMedia) error {
	return r.db.WithContext(ctx).Omit("Icon").Create(social).Error
}

func (r *userRepository) GetSocialMediaByID(ctx context.Context, id string) (*entities.SocialMedia, error) {
	var social entities.SocialMedia
	if err := r.db.WithContext(ctx).Preload("Icon").Where("id = ?", id).First(&social).Error; err != nil {
		return nil, err
	}
	return &social, nil
}

func (r *userRepository) GetSocialMediaByUser(ctx context.Context, userID string) ([]*entities.SocialMedia, error) {
	var socials []*entities.SocialMedia
	if err := r.db.WithContext(ctx).
		Preload("Icon").
		Where("user_id = ?", userID).
		Order("social_name asc").
		Find(&socials).Error; err != nil {
		return nil, err
	}
	return socials, nil
}

func (r *userRepository) DeleteSocialMedia(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.SocialMedia{}).Error
}

func (r *userRepository) IconExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Icon{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
