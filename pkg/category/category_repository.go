package category

import (
	"context"

	"gorm.io/gorm"

	"recipe-website/entities"
)

type (
	CategoryRepository interface {
		GetCategories(ctx context.Context) ([]*entities.Category, error)
		GetCategoryByID(ctx context.Context, id string) (*entities.Category, error)
		CreateCategory(ctx context.Context, category *entities.Category) error
		DeleteCategory(ctx context.Context, id string) error
		CountRecipesInCategory(ctx context.Context, id string) (int64, error)

		GetPlaces(ctx context.Context) ([]*entities.Place, error)
		CreatePlace(ctx context.Context, place *entities.Place) error

		GetIcons(ctx context.Context) ([]*entities.Icon, error)
		GetIconByID(ctx context.Context, id string) (*entities.Icon, error)
		CreateIcon(ctx context.Context, icon *entities.Icon) error
		DeleteIcon(ctx context.Context, id string) error
		CountSocialMediaWithIcon(ctx context.Context, id string) (int64, error)
	}

	categoryRepository struct {
		db *gorm.DB
	}
)

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetCategories(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Category{}).Error
}

func (r *categoryRepository) CountRecipesInCategory(ctx context.Context, id string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *categoryRepository) GetPlaces(ctx context.Context) ([]*entities.Place, error) {
	var places []*entities.Place
	if err := r.db.WithContext(ctx).Order("city asc").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *categoryRepository) CreatePlace(ctx context.Context, place *entities.Place) error {
	return r.db.WithContext(ctx).Create(place).Error
}

func (r *categoryRepository) GetIcons(ctx context.Context) ([]*entities.Icon, error) {
	var icons []*entities.Icon
	if err := r.db.WithContext(ctx).Order("name asc").Find(&icons).Error; err != nil {
		return nil, err
	}
	return icons, nil
}

func (r *categoryRepository) GetIconByID(ctx context.Context, id string) (*entities.Icon, error) {
	var icon entities.Icon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&icon).Error; err != nil {
		return nil, err
	}
	return &icon, nil
}

func (r *categoryRepository) CreateIcon(ctx context.Context, icon *entities.Icon) error {
	return r.db.WithContext(ctx).Create(icon).Error
}

func (r *categoryRepository) DeleteIcon(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Icon{}).Error
}

func (r *categoryRepository) CountSocialMediaWithIcon(ctx context.Context, id string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.SocialMedia{}).
		Where("icon_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
