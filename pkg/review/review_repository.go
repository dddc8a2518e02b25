package review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipe-website/entities"
)

type (
	ReviewRepository interface {
		CreateReview(ctx context.Context, review *entities.Review) error
		GetReviewByID(ctx context.Context, id string) (*entities.Review, error)
		UpdateReview(ctx context.Context, review *entities.Review) error
		DeleteReview(ctx context.Context, id string) error
		GetReviewsByRecipe(ctx context.Context, recipeID string) ([]*entities.Review, error)
		GetRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error)
		AverageRating(ctx context.Context, recipeID string) (float64, error)
		AverageRatings(ctx context.Context, recipeIDs []string) (map[string]float64, error)
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetReviewByID(ctx context.Context, id string) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) UpdateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).
		Model(&entities.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{"rating": review.Rating, "comment": review.Comment}).Error
}

func (r *reviewRepository) DeleteReview(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Review{}).Error
}

func (r *reviewRepository) GetReviewsByRecipe(ctx context.Context, recipeID string) ([]*entities.Review, error) {
	var reviews []*entities.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) GetRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Select("id", "creator_id", "is_approved").
		Where("id = ?", recipeID).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// AverageRating recomputes the mean rating from every review row. A recipe
// without reviews averages 0.
func (r *reviewRepository) AverageRating(ctx context.Context, recipeID string) (float64, error) {
	var avg sql.NullFloat64
	if err := r.db.WithContext(ctx).
		Model(&entities.Review{}).
		Select("AVG(rating)").
		Where("recipe_id = ?", recipeID).
		Row().
		Scan(&avg); err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

func (r *reviewRepository) AverageRatings(ctx context.Context, recipeIDs []string) (map[string]float64, error) {
	result := make(map[string]float64, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		RecipeID uuid.UUID
		Avg      float64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Review{}).
		Select("recipe_id, AVG(rating) AS avg").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.RecipeID.String()] = row.Avg
	}
	return result, nil
}
