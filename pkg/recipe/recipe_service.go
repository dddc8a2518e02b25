package recipe

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/logging"
	"recipe-website/internal/utils"
	"recipe-website/internal/utils/storage"
	"recipe-website/pkg/media"
	"recipe-website/pkg/review"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, creatorID string) (domain.CreateRecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, requesterID string, req domain.RecipeRequest) error
		DeleteRecipe(ctx context.Context, recipeID string, requester domain.Requester) error
		GetRecipeDetail(ctx context.Context, recipeID string, viewer domain.Requester) (domain.RecipeDetail, error)
		ModerateRecipe(ctx context.Context, recipeID string, requester domain.Requester, req domain.ModerationRequest) error

		ToggleFavorite(ctx context.Context, recipeID string, userID string) (bool, error)
		AddFavorite(ctx context.Context, recipeID string, userID string) error
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error

		AddNote(ctx context.Context, recipeID string, requester domain.Requester, req domain.NoteRequest) (domain.NoteResponse, error)
		DeleteNote(ctx context.Context, recipeID string, noteID uint, requester domain.Requester) error

		ListApproved(ctx context.Context, page int) (domain.RecipePage, error)
		ListHighlighted(ctx context.Context) ([]domain.RecipeSummary, error)
		ListByCategory(ctx context.Context, categoryID string, page int) (domain.RecipePage, error)
		Search(ctx context.Context, query string, page int) (domain.RecipePage, error)
		ListFavorites(ctx context.Context, userID string, page int) (domain.RecipePage, error)
		ListByCreator(ctx context.Context, creatorID string, includeUnapproved bool, page int) (domain.RecipePage, error)
		ListPending(ctx context.Context, requester domain.Requester, page int) (domain.RecipePage, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		reviewService    review.ReviewService
		storage          storage.Storage
		normalizer       media.Normalizer
		validator        *validator.Validate
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	reviewService review.ReviewService,
	storage storage.Storage,
	normalizer media.Normalizer,
	validator *validator.Validate,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		reviewService:    reviewService,
		storage:          storage,
		normalizer:       normalizer,
		validator:        validator,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, creatorID string) (domain.CreateRecipeResponse, error) {
	creatorUUID, err := uuid.Parse(creatorID)
	if err != nil {
		return domain.CreateRecipeResponse{}, domain.ErrParseUUID
	}

	if err := s.validateRecipe(ctx, req); err != nil {
		return domain.CreateRecipeResponse{}, err
	}

	imageKey, uploadedImage := s.uploadImage(ctx, req.Image)
	sliderKey, uploadedSlider := s.uploadImage(ctx, req.SliderImage)

	recipe := &entities.Recipe{
		Name:        req.Name,
		Image:       imageKey,
		SliderImage: sliderKey,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		Description: req.Description,
		CategoryID:  uuid.MustParse(req.CategoryID),
		CreatorID:   &creatorUUID,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, toIngredients(req.Ingredients), toSteps(req.Steps)); err != nil {
		s.discardUploads(ctx, uploaded(imageKey, uploadedImage), uploaded(sliderKey, uploadedSlider))
		return domain.CreateRecipeResponse{}, err
	}

	s.normalizeUploads(ctx, uploaded(imageKey, uploadedImage), uploaded(sliderKey, uploadedSlider))

	logging.Ctx(ctx).Info().
		Str("recipe_id", recipe.ID.String()).
		Str("creator_id", creatorID).
		Str("name", recipe.Name).
		Msg("recipe created")

	return domain.CreateRecipeResponse{ID: recipe.ID.String()}, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, requesterID string, req domain.RecipeRequest) error {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	if !isCreator(recipe, requesterID) {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.validateRecipe(ctx, req); err != nil {
		return err
	}

	oldImage, oldSlider := recipe.Image, recipe.SliderImage
	var newImage, newSlider string
	if req.Image != nil {
		if key, ok := s.uploadImage(ctx, req.Image); ok {
			newImage = key
			recipe.Image = key
		}
	}
	if req.SliderImage != nil {
		if key, ok := s.uploadImage(ctx, req.SliderImage); ok {
			newSlider = key
			recipe.SliderImage = key
		}
	}

	recipe.Name = req.Name
	recipe.Difficulty = req.Difficulty
	recipe.Duration = req.Duration
	recipe.Description = req.Description
	recipe.CategoryID = uuid.MustParse(req.CategoryID)
	recipe.Category = nil
	recipe.Creator = nil

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, toIngredients(req.Ingredients), toSteps(req.Steps)); err != nil {
		s.discardUploads(ctx, newImage, newSlider)
		return err
	}

	if newImage != "" {
		s.discardUploads(ctx, oldImage)
	}
	if newSlider != "" {
		s.discardUploads(ctx, oldSlider)
	}
	s.normalizeUploads(ctx, newImage, newSlider)

	logging.Ctx(ctx).Info().
		Str("recipe_id", recipeID).
		Str("requester_id", requesterID).
		Msg("recipe updated")
	return nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, requester domain.Requester) error {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	if !isCreator(recipe, requester.UserID) && !requester.IsStaff {
		return domain.ErrUnauthorizedRecipeAccess
	}

	s.discardUploads(ctx, recipe.Image, recipe.SliderImage)

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID.String()); err != nil {
		if isNotFound(err) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	logging.Ctx(ctx).Info().
		Str("recipe_id", recipeID).
		Str("requester_id", requester.UserID).
		Msg("recipe deleted")
	return nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewer domain.Requester) (domain.RecipeDetail, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return domain.RecipeDetail{}, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeDetail(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return domain.RecipeDetail{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetail{}, err
	}

	if !recipe.IsApproved && !isCreator(recipe, viewer.UserID) && !viewer.IsStaff {
		return domain.RecipeDetail{}, domain.ErrRecipeNotFound
	}

	avg, err := s.reviewService.AverageRating(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	reviews, err := s.reviewService.ListReviews(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	favorites, err := s.recipeRepository.CountFavorites(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	detail := domain.RecipeDetail{
		RecipeSummary: s.toSummary(recipe, avg),
		Description:   recipe.Description,
		IsApproved:    recipe.IsApproved,
		AverageRating: avg,
		Ingredients:   make([]domain.RecipeChild, 0, len(recipe.Ingredients)),
		Steps:         make([]domain.RecipeChild, 0, len(recipe.Steps)),
		Notes:         make([]domain.NoteResponse, 0, len(recipe.Notes)),
		Reviews:       reviews,
		FavoriteCount: favorites,
	}
	for _, ingredient := range recipe.Ingredients {
		detail.Ingredients = append(detail.Ingredients, domain.RecipeChild{
			ID:       ingredient.ID,
			Text:     ingredient.Text,
			Sequence: ingredient.Sequence,
		})
	}
	for _, step := range recipe.Steps {
		detail.Steps = append(detail.Steps, domain.RecipeChild{
			ID:       step.ID,
			Text:     step.Text,
			Sequence: step.Sequence,
		})
	}
	for _, note := range recipe.Notes {
		detail.Notes = append(detail.Notes, domain.NoteResponse{ID: note.ID, Content: note.Content})
	}

	if viewer.UserID != "" {
		detail.IsFavorited, err = s.recipeRepository.IsFavorited(ctx, recipeID, viewer.UserID)
		if err != nil {
			return domain.RecipeDetail{}, err
		}
	}

	return detail, nil
}

func (s *recipeService) ModerateRecipe(ctx context.Context, recipeID string, requester domain.Requester, req domain.ModerationRequest) error {
	if !requester.IsStaff {
		return domain.ErrUserNotAllowed
	}
	if _, err := uuid.Parse(recipeID); err != nil {
		return domain.ErrRecipeNotFound
	}

	fields := map[string]any{}
	if req.IsApproved != nil {
		fields["is_approved"] = *req.IsApproved
	}
	if req.IsHighlight != nil {
		fields["is_highlight"] = *req.IsHighlight
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.recipeRepository.UpdateModeration(ctx, recipeID, fields); err != nil {
		if isNotFound(err) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, recipeID string, userID string) (bool, error) {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return false, err
	}
	if _, err := uuid.Parse(userID); err != nil {
		return false, domain.ErrParseUUID
	}
	return s.recipeRepository.ToggleFavorite(ctx, recipeID, userID)
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ErrParseUUID
	}
	return s.recipeRepository.AddFavorite(ctx, recipeID, userID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	return s.recipeRepository.RemoveFavorite(ctx, recipeID, userID)
}

func (s *recipeService) AddNote(ctx context.Context, recipeID string, requester domain.Requester, req domain.NoteRequest) (domain.NoteResponse, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return domain.NoteResponse{}, err
	}
	if !isCreator(recipe, requester.UserID) && !requester.IsStaff {
		return domain.NoteResponse{}, domain.ErrUnauthorizedRecipeAccess
	}
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		return domain.NoteResponse{}, err
	}

	note := &entities.Note{RecipeID: recipe.ID, Content: req.Content}
	if err := s.recipeRepository.AddNote(ctx, note); err != nil {
		return domain.NoteResponse{}, err
	}
	return domain.NoteResponse{ID: note.ID, Content: note.Content}, nil
}

func (s *recipeService) DeleteNote(ctx context.Context, recipeID string, noteID uint, requester domain.Requester) error {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !isCreator(recipe, requester.UserID) && !requester.IsStaff {
		return domain.ErrUnauthorizedRecipeAccess
	}

	note, err := s.recipeRepository.GetNoteByID(ctx, recipeID, noteID)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNoteNotFound
		}
		return err
	}
	return s.recipeRepository.DeleteNote(ctx, note.ID)
}

func (s *recipeService) findRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// validateRecipe collects every field problem of req into one
// *domain.ValidationError.
func (s *recipeService) validateRecipe(ctx context.Context, req domain.RecipeRequest) error {
	verr := domain.NewValidationError()
	if err := utils.ValidateStruct(s.validator, req); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}

	if msg := media.CheckUpload(req.Image); msg != "" {
		verr.Add("image", msg)
	}
	if msg := media.CheckUpload(req.SliderImage); msg != "" {
		verr.Add("slider_image", msg)
	}

	if _, fieldErr := verr.Fields["category_id"]; !fieldErr {
		exists, err := s.recipeRepository.CategoryExists(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if !exists {
			verr.Add("category_id", domain.ErrCategoryNotFound.Error())
		}
	}

	return verr.OrNil()
}

// uploadImage stores file in the recipes bucket. A missing file or a failed
// upload yields the placeholder key and false; upload failures are logged.
func (s *recipeService) uploadImage(ctx context.Context, file *domain.ImageFile) (string, bool) {
	if file == nil {
		return entities.DefaultRecipeImage, false
	}
	key, err := s.storage.UploadFile(ctx, storage.BucketRecipes, file.Filename, file.Data)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("filename", file.Filename).Msg("error uploading recipe image")
		return entities.DefaultRecipeImage, false
	}
	return key, true
}

func (s *recipeService) normalizeUploads(ctx context.Context, keys ...string) {
	for _, key := range keys {
		s.normalizer.Normalize(ctx, key, media.RecipeImageSize)
	}
}

// discardUploads deletes stored images, skipping placeholders. Failures
// are logged only.
func (s *recipeService) discardUploads(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" || media.IsPlaceholder(key) {
			continue
		}
		if err := s.storage.DeleteFile(ctx, key); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("error deleting recipe image")
		}
	}
}

func uploaded(key string, ok bool) string {
	if !ok {
		return ""
	}
	return key
}

func isCreator(recipe *entities.Recipe, userID string) bool {
	return recipe.CreatorID != nil && userID != "" && recipe.CreatorID.String() == userID
}

func toIngredients(items []domain.RecipeChildRequest) []*entities.RecipeIngredient {
	ingredients := make([]*entities.RecipeIngredient, 0, len(items))
	for _, item := range items {
		ingredient := &entities.RecipeIngredient{Text: item.Text, Sequence: item.Sequence}
		if item.ID != nil {
			ingredient.ID = *item.ID
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients
}

func toSteps(items []domain.RecipeChildRequest) []*entities.PreparationStep {
	steps := make([]*entities.PreparationStep, 0, len(items))
	for _, item := range items {
		step := &entities.PreparationStep{Text: item.Text, Sequence: item.Sequence}
		if item.ID != nil {
			step.ID = *item.ID
		}
		steps = append(steps, step)
	}
	return steps
}
