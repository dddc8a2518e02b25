package category

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/logging"
	"recipe-website/internal/utils"
)

type (
	// CategoryService serves the reference data shown around recipes:
	// categories, cities and social media icons. Writes are staff-only and
	// guarded at the route level.
	CategoryService interface {
		ListCategories(ctx context.Context) ([]domain.CategoryResponse, error)
		GetCategory(ctx context.Context, id string) (domain.CategoryResponse, error)
		CreateCategory(ctx context.Context, req domain.CategoryRequest) (domain.CategoryResponse, error)
		DeleteCategory(ctx context.Context, id string) error

		ListPlaces(ctx context.Context) ([]domain.PlaceResponse, error)
		CreatePlace(ctx context.Context, req domain.PlaceRequest) (domain.PlaceResponse, error)

		ListIcons(ctx context.Context) ([]domain.IconResponse, error)
		CreateIcon(ctx context.Context, req domain.IconRequest) (domain.IconResponse, error)
		DeleteIcon(ctx context.Context, id string) error
	}

	categoryService struct {
		categoryRepository CategoryRepository
		validator          *validator.Validate
	}
)

func NewCategoryService(categoryRepository CategoryRepository, validator *validator.Validate) CategoryService {
	return &categoryService{
		categoryRepository: categoryRepository,
		validator:          validator,
	}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	categories, err := s.categoryRepository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, toCategoryResponse(category))
	}
	return res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id string) (domain.CategoryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.CategoryResponse{}, domain.ErrCategoryNotFound
	}
	category, err := s.categoryRepository.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CategoryResponse{}, domain.ErrCategoryNotFound
		}
		return domain.CategoryResponse{}, err
	}
	return toCategoryResponse(category), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req domain.CategoryRequest) (domain.CategoryResponse, error) {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.CategoryResponse{}, err
	}

	category := &entities.Category{Name: req.Name}
	if err := s.categoryRepository.CreateCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, err
	}

	logging.Ctx(ctx).Info().Str("category_id", category.ID.String()).Str("name", category.Name).Msg("category created")
	return toCategoryResponse(category), nil
}

// DeleteCategory refuses while any recipe, approved or not, still uses
// the category.
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	inUse, err := s.categoryRepository.CountRecipesInCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.ErrCategoryInUse
	}

	return s.categoryRepository.DeleteCategory(ctx, id)
}

func (s *categoryService) ListPlaces(ctx context.Context) ([]domain.PlaceResponse, error) {
	places, err := s.categoryRepository.GetPlaces(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.PlaceResponse, 0, len(places))
	for _, place := range places {
		res = append(res, toPlaceResponse(place))
	}
	return res, nil
}

func (s *categoryService) CreatePlace(ctx context.Context, req domain.PlaceRequest) (domain.PlaceResponse, error) {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.PlaceResponse{}, err
	}

	place := &entities.Place{City: req.City, Latitude: req.Latitude, Longitude: req.Longitude}
	if err := s.categoryRepository.CreatePlace(ctx, place); err != nil {
		return domain.PlaceResponse{}, err
	}
	return toPlaceResponse(place), nil
}

func (s *categoryService) ListIcons(ctx context.Context) ([]domain.IconResponse, error) {
	icons, err := s.categoryRepository.GetIcons(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.IconResponse, 0, len(icons))
	for _, icon := range icons {
		res = append(res, toIconResponse(icon))
	}
	return res, nil
}

func (s *categoryService) CreateIcon(ctx context.Context, req domain.IconRequest) (domain.IconResponse, error) {
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.IconResponse{}, err
	}

	icon := &entities.Icon{Name: req.Name, HTMLClass: req.HTMLClass}
	if err := s.categoryRepository.CreateIcon(ctx, icon); err != nil {
		return domain.IconResponse{}, err
	}
	return toIconResponse(icon), nil
}

func (s *categoryService) DeleteIcon(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrIconNotFound
	}
	if _, err := s.categoryRepository.GetIconByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrIconNotFound
		}
		return err
	}

	inUse, err := s.categoryRepository.CountSocialMediaWithIcon(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.ErrIconInUse
	}

	return s.categoryRepository.DeleteIcon(ctx, id)
}

func toCategoryResponse(category *entities.Category) domain.CategoryResponse {
	return domain.CategoryResponse{ID: category.ID.String(), Name: category.Name}
}

func toPlaceResponse(place *entities.Place) domain.PlaceResponse {
	return domain.PlaceResponse{
		ID:        place.ID.String(),
		City:      place.City,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
	}
}

func toIconResponse(icon *entities.Icon) domain.IconResponse {
	return domain.IconResponse{ID: icon.ID.String(), Name: icon.Name, HTMLClass: icon.HTMLClass}
}
