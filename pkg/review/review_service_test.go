package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/testutil"
	"recipe-website/internal/utils"
)

func TestRoundRating(t *testing.T) {
	cases := []struct {
		avg  float64
		want int
	}{
		{0, 0},
		{1.49, 1},
		{2.5, 3},
		{4.0, 4},
		{13.0 / 3.0, 4},
		{4.5, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundRating(tc.avg), "avg %v", tc.avg)
	}
}

func setup(t *testing.T) (ReviewService, *entities.Recipe, *entities.User, *entities.User) {
	t.Helper()
	db := testutil.NewDB(t)
	creator := testutil.CreateUser(t, db, "creator", false)
	reviewer := testutil.CreateUser(t, db, "reviewer", false)
	category := testutil.CreateCategory(t, db, "Soups")
	recipe := testutil.CreateRecipe(t, db, "Pho", category.ID, creator, true)
	return NewReviewService(NewReviewRepository(db), utils.NewValidator()), recipe, creator, reviewer
}

func TestAverageRating(t *testing.T) {
	ctx := context.Background()
	svc, recipe, _, reviewer := setup(t)
	id := recipe.ID.String()

	avg, err := svc.AverageRating(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, avg)

	for _, rating := range []int{5, 3, 4} {
		_, err := svc.CreateReview(ctx, id, reviewer.ID.String(), domain.ReviewRequest{Rating: rating})
		require.NoError(t, err)
	}

	avg, err = svc.AverageRating(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)

	avgs, err := svc.AverageRatings(ctx, []string{id, "0b9f1c1e-3b52-4c8e-9a57-1b3c1d9e2f00"})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avgs[id], 1e-9)
	assert.Len(t, avgs, 1)
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	svc, recipe, creator, reviewer := setup(t)
	id := recipe.ID.String()

	_, err := svc.CreateReview(ctx, id, creator.ID.String(), domain.ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrSelfReview)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	for _, rating := range []int{0, 6} {
		_, err = svc.CreateReview(ctx, id, reviewer.ID.String(), domain.ReviewRequest{Rating: rating})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "rating")
	}

	_, err = svc.CreateReview(ctx, "0b9f1c1e-3b52-4c8e-9a57-1b3c1d9e2f00", reviewer.ID.String(), domain.ReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	res, err := svc.CreateReview(ctx, id, reviewer.ID.String(), domain.ReviewRequest{Rating: 4, Comment: "lovely"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rating)
	assert.Equal(t, id, res.RecipeID)

	reviews, err := svc.ListReviews(ctx, id)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "reviewer", reviews[0].Username)
	assert.Equal(t, "lovely", reviews[0].Comment)
}

func TestUpdateAndDeleteReview(t *testing.T) {
	ctx := context.Background()
	svc, recipe, creator, reviewer := setup(t)
	id := recipe.ID.String()

	res, err := svc.CreateReview(ctx, id, reviewer.ID.String(), domain.ReviewRequest{Rating: 2})
	require.NoError(t, err)

	stranger := domain.Requester{UserID: creator.ID.String()}
	_, err = svc.UpdateReview(ctx, res.ID, stranger, domain.ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	author := domain.Requester{UserID: reviewer.ID.String()}
	updated, err := svc.UpdateReview(ctx, res.ID, author, domain.ReviewRequest{Rating: 5, Comment: "better"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	avg, err := svc.AverageRating(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, avg, 1e-9)

	assert.ErrorIs(t, svc.DeleteReview(ctx, res.ID, stranger), domain.ErrForbidden)

	staff := domain.Requester{UserID: creator.ID.String(), IsStaff: true}
	require.NoError(t, svc.DeleteReview(ctx, res.ID, staff))

	avg, err = svc.AverageRating(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, avg)

	assert.ErrorIs(t, svc.DeleteReview(ctx, res.ID, author), domain.ErrReviewNotFound)
}
