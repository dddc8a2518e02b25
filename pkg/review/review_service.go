package review

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/logging"
	"recipe-website/internal/utils"
)

type (
	ReviewService interface {
		CreateReview(ctx context.Context, recipeID, userID string, req domain.ReviewRequest) (domain.ReviewResponse, error)
		UpdateReview(ctx context.Context, reviewID string, requester domain.Requester, req domain.ReviewRequest) (domain.ReviewResponse, error)
		DeleteReview(ctx context.Context, reviewID string, requester domain.Requester) error
		ListReviews(ctx context.Context, recipeID string) ([]domain.ReviewResponse, error)
		AverageRating(ctx context.Context, recipeID string) (float64, error)
		AverageRatings(ctx context.Context, recipeIDs []string) (map[string]float64, error)
	}

	reviewService struct {
		reviewRepository ReviewRepository
		validator        *validator.Validate
	}
)

func NewReviewService(reviewRepository ReviewRepository, validator *validator.Validate) ReviewService {
	return &reviewService{
		reviewRepository: reviewRepository,
		validator:        validator,
	}
}

// RoundRating is the display form of an average rating.
func RoundRating(avg float64) int {
	return int(math.Round(avg))
}

func (s *reviewService) CreateReview(ctx context.Context, recipeID, userID string, req domain.ReviewRequest) (domain.ReviewResponse, error) {
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrRecipeNotFound
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrParseUUID
	}

	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.ReviewResponse{}, err
	}

	recipe, err := s.reviewRepository.GetRecipe(ctx, recipeUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReviewResponse{}, domain.ErrRecipeNotFound
		}
		return domain.ReviewResponse{}, err
	}

	if recipe.CreatorID != nil && *recipe.CreatorID == userUUID {
		return domain.ReviewResponse{}, domain.ErrSelfReview
	}

	review := &entities.Review{
		RecipeID: recipeUUID,
		UserID:   userUUID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.reviewRepository.CreateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}

	logging.Ctx(ctx).Info().
		Str("recipe_id", recipeID).
		Str("user_id", userID).
		Int("rating", req.Rating).
		Msg("review created")

	return toReviewResponse(review), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, requester domain.Requester, req domain.ReviewRequest) (domain.ReviewResponse, error) {
	review, err := s.ownedReview(ctx, reviewID, requester)
	if err != nil {
		return domain.ReviewResponse{}, err
	}

	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.ReviewResponse{}, err
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.reviewRepository.UpdateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}
	return toReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string, requester domain.Requester) error {
	review, err := s.ownedReview(ctx, reviewID, requester)
	if err != nil {
		return err
	}
	return s.reviewRepository.DeleteReview(ctx, review.ID.String())
}

// ownedReview loads a review the requester may change: their own, or any
// review when the requester is staff.
func (s *reviewService) ownedReview(ctx context.Context, reviewID string, requester domain.Requester) (*entities.Review, error) {
	if _, err := uuid.Parse(reviewID); err != nil {
		return nil, domain.ErrReviewNotFound
	}

	review, err := s.reviewRepository.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID.String() != requester.UserID && !requester.IsStaff {
		return nil, domain.ErrUnauthorizedReviewAccess
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, recipeID string) ([]domain.ReviewResponse, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	reviews, err := s.reviewRepository.GetReviewsByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, toReviewResponse(review))
	}
	return response, nil
}

func (s *reviewService) AverageRating(ctx context.Context, recipeID string) (float64, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return 0, domain.ErrRecipeNotFound
	}
	return s.reviewRepository.AverageRating(ctx, recipeID)
}

func (s *reviewService) AverageRatings(ctx context.Context, recipeIDs []string) (map[string]float64, error) {
	return s.reviewRepository.AverageRatings(ctx, recipeIDs)
}

func toReviewResponse(review *entities.Review) domain.ReviewResponse {
	res := domain.ReviewResponse{
		ID:        review.ID.String(),
		RecipeID:  review.RecipeID.String(),
		UserID:    review.UserID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.User != nil {
		res.Username = review.User.Username
	}
	return res
}
