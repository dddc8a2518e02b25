package recipe

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/pkg/review"
)

// highlightLimit caps the hero slider.
const highlightLimit = 5

func (s *recipeService) ListApproved(ctx context.Context, page int) (domain.RecipePage, error) {
	return s.listPage(ctx, RecipeFilter{ApprovedOnly: true}, page)
}

func (s *recipeService) ListHighlighted(ctx context.Context) ([]domain.RecipeSummary, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx, RecipeFilter{ApprovedOnly: true, HighlightOnly: true}, 0, highlightLimit)
	if err != nil {
		return nil, err
	}
	return s.toSummaries(ctx, recipes)
}

func (s *recipeService) ListByCategory(ctx context.Context, categoryID string, page int) (domain.RecipePage, error) {
	if _, err := uuid.Parse(categoryID); err != nil {
		return domain.RecipePage{}, domain.ErrCategoryNotFound
	}
	exists, err := s.recipeRepository.CategoryExists(ctx, categoryID)
	if err != nil {
		return domain.RecipePage{}, err
	}
	if !exists {
		return domain.RecipePage{}, domain.ErrCategoryNotFound
	}
	return s.listPage(ctx, RecipeFilter{ApprovedOnly: true, CategoryID: categoryID}, page)
}

// Search matches approved recipes whose name or any ingredient contains
// query. A blank query matches nothing.
func (s *recipeService) Search(ctx context.Context, query string, page int) (domain.RecipePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RecipePage{
			Recipes:    []domain.RecipeSummary{},
			Pagination: domain.NewPagination(1, 0),
		}, nil
	}
	return s.listPage(ctx, RecipeFilter{ApprovedOnly: true, Query: query}, page)
}

func (s *recipeService) ListFavorites(ctx context.Context, userID string, page int) (domain.RecipePage, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.RecipePage{}, domain.ErrParseUUID
	}
	return s.listPage(ctx, RecipeFilter{ApprovedOnly: true, FavoritedBy: userID}, page)
}

func (s *recipeService) ListByCreator(ctx context.Context, creatorID string, includeUnapproved bool, page int) (domain.RecipePage, error) {
	if _, err := uuid.Parse(creatorID); err != nil {
		return domain.RecipePage{}, domain.ErrUserNotFound
	}
	return s.listPage(ctx, RecipeFilter{ApprovedOnly: !includeUnapproved, CreatorID: creatorID}, page)
}

func (s *recipeService) listPage(ctx context.Context, filter RecipeFilter, page int) (domain.RecipePage, error) {
	total, err := s.recipeRepository.CountRecipes(ctx, filter)
	if err != nil {
		return domain.RecipePage{}, err
	}

	pagination := domain.NewPagination(page, total)
	recipes, err := s.recipeRepository.GetRecipes(ctx, filter, pagination.Offset(), pagination.PageSize)
	if err != nil {
		return domain.RecipePage{}, err
	}

	summaries, err := s.toSummaries(ctx, recipes)
	if err != nil {
		return domain.RecipePage{}, err
	}
	return domain.RecipePage{Recipes: summaries, Pagination: pagination}, nil
}

func (s *recipeService) toSummaries(ctx context.Context, recipes []*entities.Recipe) ([]domain.RecipeSummary, error) {
	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID.String())
	}

	ratings, err := s.reviewService.AverageRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, s.toSummary(recipe, ratings[recipe.ID.String()]))
	}
	return summaries, nil
}

func (s *recipeService) toSummary(recipe *entities.Recipe, avg float64) domain.RecipeSummary {
	summary := domain.RecipeSummary{
		ID:             recipe.ID.String(),
		Name:           recipe.Name,
		ImageURL:       s.storage.URL(recipe.Image),
		SliderImageURL: s.storage.URL(recipe.SliderImage),
		Difficulty:     recipe.Difficulty,
		Duration:       recipe.Duration,
		CategoryID:     recipe.CategoryID.String(),
		IsHighlight:    recipe.IsHighlight,
		Rating:         review.RoundRating(avg),
		CreatedAt:      recipe.CreatedAt,
		UpdatedAt:      recipe.UpdatedAt,
	}
	if recipe.Category != nil {
		summary.CategoryName = recipe.Category.Name
	}
	if recipe.CreatorID != nil {
		summary.CreatorID = recipe.CreatorID.String()
	}
	if recipe.Creator != nil {
		summary.CreatorUsername = recipe.Creator.Username
	}
	return summary
}

// ListPending is the moderation queue: recipes still awaiting approval.
func (s *recipeService) ListPending(ctx context.Context, requester domain.Requester, page int) (domain.RecipePage, error) {
	if !requester.IsStaff {
		return domain.RecipePage{}, domain.ErrUserNotAllowed
	}
	return s.listPage(ctx, RecipeFilter{PendingOnly: true}, page)
}
