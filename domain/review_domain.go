package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessCreateReview = "review published successfully"
	MessageSuccessUpdateReview = "review updated successfully"
	MessageSuccessDeleteReview = "review deleted successfully"
	MessageSuccessGetReviews   = "success get reviews"

	MessageFailedCreateReview = "failed to publish review"
	MessageFailedUpdateReview = "failed to update review"
	MessageFailedDeleteReview = "failed to delete review"
	MessageFailedGetReviews   = "failed to get reviews"

	ErrReviewNotFound           = fmt.Errorf("review %w", ErrNotFound)
	ErrSelfReview               = fmt.Errorf("you cannot review your own recipe: %w", ErrForbidden)
	ErrUnauthorizedReviewAccess = fmt.Errorf("unauthorized access to review: %w", ErrForbidden)
)

type (
	ReviewRequest struct {
		Rating  int    `json:"rating" validate:"min=1,max=5"`
		Comment string `json:"comment"`
	}

	ReviewResponse struct {
		ID        string    `json:"id"`
		RecipeID  string    `json:"recipe_id"`
		UserID    string    `json:"user_id"`
		Username  string    `json:"username,omitempty"`
		Rating    int       `json:"rating"`
		Comment   string    `json:"comment"`
		CreatedAt time.Time `json:"created_at"`
	}
)
