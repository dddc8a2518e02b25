package domain

import (
	"errors"
	"fmt"
	"time"
)

// MaxUploadSize is the largest accepted image upload, in bytes.
const MaxUploadSize = 5 * 1024 * 1024

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessToggleFavorite  = "favorite toggled successfully"
	MessageSuccessAddNote         = "note added successfully"
	MessageSuccessDeleteNote      = "note deleted successfully"
	MessageSuccessModerateRecipe  = "recipe moderation updated"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedToggleFavorite  = "failed to toggle favorite"
	MessageFailedAddNote         = "failed to add note"
	MessageFailedDeleteNote      = "failed to delete note"
	MessageFailedModerateRecipe  = "failed to moderate recipe"

	ErrRecipeNotFound           = fmt.Errorf("recipe %w", ErrNotFound)
	ErrNoteNotFound             = fmt.Errorf("note %w", ErrNotFound)
	ErrUnauthorizedRecipeAccess = fmt.Errorf("unauthorized access to recipe: %w", ErrForbidden)
	ErrInvalidRecipePayload     = errors.New("invalid recipe payload")
)

type (
	// ImageFile is an uploaded image held in memory; uploads are capped at
	// MaxUploadSize.
	ImageFile struct {
		Filename string
		Data     []byte
	}

	RecipeChildRequest struct {
		ID       *uint  `json:"id,omitempty"`
		Text     string `json:"text" validate:"required"`
		Sequence int    `json:"sequence" validate:"min=1"`
	}

	// RecipeRequest is the full submission for creating or replacing a
	// recipe together with its ingredient and step collections.
	RecipeRequest struct {
		Name        string               `json:"name" validate:"required,max=255"`
		Difficulty  int                  `json:"difficulty" validate:"min=1,max=5"`
		Duration    int                  `json:"duration" validate:"min=1"`
		Description string               `json:"description"`
		CategoryID  string               `json:"category_id" validate:"required,uuid"`
		Ingredients []RecipeChildRequest `json:"ingredients" validate:"dive"`
		Steps       []RecipeChildRequest `json:"steps" validate:"dive"`

		Image       *ImageFile `json:"-" validate:"-"`
		SliderImage *ImageFile `json:"-" validate:"-"`
	}

	ModerationRequest struct {
		IsApproved  *bool `json:"is_approved"`
		IsHighlight *bool `json:"is_highlight"`
	}

	NoteRequest struct {
		Content string `json:"content" validate:"required"`
	}

	CreateRecipeResponse struct {
		ID string `json:"id"`
	}

	ToggleFavoriteResponse struct {
		Favorited bool `json:"favorited"`
	}

	RecipeSummary struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		ImageURL        string    `json:"image_url"`
		SliderImageURL  string    `json:"slider_image_url"`
		Difficulty      int       `json:"difficulty"`
		Duration        int       `json:"duration"`
		CategoryID      string    `json:"category_id"`
		CategoryName    string    `json:"category_name,omitempty"`
		CreatorID       string    `json:"creator_id,omitempty"`
		CreatorUsername string    `json:"creator_username,omitempty"`
		IsHighlight     bool      `json:"is_highlight"`
		Rating          int       `json:"rating"`
		CreatedAt       time.Time `json:"created_at"`
		UpdatedAt       time.Time `json:"updated_at"`
	}

	RecipePage struct {
		Recipes    []RecipeSummary `json:"recipes"`
		Pagination Pagination      `json:"pagination"`
	}

	RecipeChild struct {
		ID       uint   `json:"id"`
		Text     string `json:"text"`
		Sequence int    `json:"sequence"`
	}

	NoteResponse struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
	}

	RecipeDetail struct {
		RecipeSummary
		Description   string           `json:"description"`
		IsApproved    bool             `json:"is_approved"`
		AverageRating float64          `json:"average_rating"`
		Ingredients   []RecipeChild    `json:"ingredients"`
		Steps         []RecipeChild    `json:"steps"`
		Notes         []NoteResponse   `json:"notes"`
		Reviews       []ReviewResponse `json:"reviews"`
		FavoriteCount int64            `json:"favorite_count"`
		IsFavorited   bool             `json:"is_favorited"`
	}
)
