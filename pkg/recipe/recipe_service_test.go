package recipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/testutil"
	"recipe-website/internal/utils"
	"recipe-website/internal/utils/storage"
	"recipe-website/pkg/media"
	"recipe-website/pkg/review"
)

type recordingNormalizer struct {
	keys []string
}

func (n *recordingNormalizer) Normalize(_ context.Context, key string, _ media.Size) {
	if key == "" || media.IsPlaceholder(key) {
		return
	}
	n.keys = append(n.keys, key)
}

type fixture struct {
	db         *gorm.DB
	root       string
	storage    storage.Storage
	normalizer *recordingNormalizer
	reviews    review.ReviewService
	service    RecipeService

	category *entities.Category
	creator  *entities.User
	other    *entities.User
	staff    *entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	root := t.TempDir()
	store := storage.NewLocalStorage(root, "/media")
	normalizer := &recordingNormalizer{}
	validate := utils.NewValidator()
	reviews := review.NewReviewService(review.NewReviewRepository(db), validate)

	return &fixture{
		db:         db,
		root:       root,
		storage:    store,
		normalizer: normalizer,
		reviews:    reviews,
		service:    NewRecipeService(NewRecipeRepository(db), reviews, store, normalizer, validate),
		category:   testutil.CreateCategory(t, db, "Desserts"),
		creator:    testutil.CreateUser(t, db, "creator", false),
		other:      testutil.CreateUser(t, db, "other", false),
		staff:      testutil.CreateUser(t, db, "staff", true),
	}
}

func (f *fixture) requester(user *entities.User) domain.Requester {
	return domain.Requester{UserID: user.ID.String(), IsStaff: user.IsStaff}
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) fileExists(key string) bool {
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(key)))
	return err == nil
}

func (f *fixture) approve(t *testing.T, recipeID string) {
	t.Helper()
	require.NoError(t, f.db.Model(&entities.Recipe{}).Where("id = ?", recipeID).Update("is_approved", true).Error)
}

func jpegFile(t *testing.T, name string) *domain.ImageFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 6)), imaging.JPEG))
	return &domain.ImageFile{Filename: name, Data: buf.Bytes()}
}

func validRequest(categoryID string) domain.RecipeRequest {
	return domain.RecipeRequest{
		Name:        "Chocolate Cake",
		Difficulty:  3,
		Duration:    45,
		Description: "rich and dark",
		CategoryID:  categoryID,
		Ingredients: []domain.RecipeChildRequest{
			{Text: "200g flour", Sequence: 1},
			{Text: "3 eggs", Sequence: 2},
		},
		Steps: []domain.RecipeChildRequest{
			{Text: "Mix", Sequence: 1},
			{Text: "Bake", Sequence: 2},
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestCreateRecipe_PersistsAggregate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := validRequest(f.category.ID.String())
	req.Image = jpegFile(t, "cake.jpg")

	res, err := f.service.CreateRecipe(ctx, req, f.creator.ID.String())
	require.NoError(t, err)

	detail, err := f.service.GetRecipeDetail(ctx, res.ID, f.requester(f.creator))
	require.NoError(t, err)

	assert.Equal(t, "Chocolate Cake", detail.Name)
	assert.False(t, detail.IsApproved)
	assert.Equal(t, "Desserts", detail.CategoryName)
	assert.Equal(t, "creator", detail.CreatorUsername)
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, "200g flour", detail.Ingredients[0].Text)
	assert.Equal(t, "3 eggs", detail.Ingredients[1].Text)
	require.Len(t, detail.Steps, 2)
	assert.Equal(t, "Bake", detail.Steps[1].Text)
	assert.Equal(t, "/media/"+entities.DefaultRecipeImage, detail.SliderImageURL)

	var stored entities.Recipe
	require.NoError(t, f.db.First(&stored, "id = ?", res.ID).Error)
	assert.True(t, f.fileExists(stored.Image))
	assert.Equal(t, []string{stored.Image}, f.normalizer.keys)
}

func TestCreateRecipe_InvalidPayloadPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*domain.RecipeRequest)
		field  string
	}{
		{"zero duration", func(r *domain.RecipeRequest) { r.Duration = 0 }, "duration"},
		{"difficulty above five", func(r *domain.RecipeRequest) { r.Difficulty = 6 }, "difficulty"},
		{"missing name", func(r *domain.RecipeRequest) { r.Name = "" }, "name"},
		{"blank ingredient", func(r *domain.RecipeRequest) { r.Ingredients[1].Text = "" }, "ingredients[1].text"},
		{"step sequence zero", func(r *domain.RecipeRequest) { r.Steps[0].Sequence = 0 }, "steps[0].sequence"},
		{"unknown category", func(r *domain.RecipeRequest) { r.CategoryID = "8f0e7a3c-58a4-4bd6-8d0c-2b5b4f5c2c11" }, "category_id"},
		{"unsupported image", func(r *domain.RecipeRequest) {
			r.Image = &domain.ImageFile{Filename: "cake.txt", Data: []byte("nope")}
		}, "image"},
		{"oversized image", func(r *domain.RecipeRequest) {
			r.Image = &domain.ImageFile{Filename: "cake.jpg", Data: make([]byte, domain.MaxUploadSize+1)}
		}, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(f.category.ID.String())
			req.SliderImage = jpegFile(t, "slider.jpg")
			tc.mutate(&req)

			_, err := f.service.CreateRecipe(ctx, req, f.creator.ID.String())
			require.Error(t, err)
			assert.Contains(t, fieldErrors(t, err), tc.field)
		})
	}

	assert.Zero(t, f.count(t, &entities.Recipe{}))
	assert.Zero(t, f.count(t, &entities.RecipeIngredient{}))
	assert.Zero(t, f.count(t, &entities.PreparationStep{}))
	assert.False(t, f.fileExists(storage.BucketRecipes), "no upload should have been stored")
	assert.Empty(t, f.normalizer.keys)
}

func TestUpdateRecipe_NonCreatorIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.CreateRecipe(ctx, validRequest(f.category.ID.String()), f.creator.ID.String())
	require.NoError(t, err)

	req := validRequest(f.category.ID.String())
	req.Name = "Hijacked"
	for _, user := range []*entities.User{f.other, f.staff} {
		err = f.service.UpdateRecipe(ctx, res.ID, user.ID.String(), req)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}

	var stored entities.Recipe
	require.NoError(t, f.db.First(&stored, "id = ?", res.ID).Error)
	assert.Equal(t, "Chocolate Cake", stored.Name)
}

func TestUpdateRecipe_SyncsChildCollections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.CreateRecipe(ctx, validRequest(f.category.ID.String()), f.creator.ID.String())
	require.NoError(t, err)
	before, err := f.service.GetRecipeDetail(ctx, res.ID, f.requester(f.creator))
	require.NoError(t, err)
	keptID := before.Ingredients[0].ID

	req := validRequest(f.category.ID.String())
	req.Name = "Dark Chocolate Cake"
	req.Ingredients = []domain.RecipeChildRequest{
		{ID: &keptID, Text: "250g flour", Sequence: 1},
		{Text: "100g cocoa", Sequence: 2},
	}
	req.Steps = []domain.RecipeChildRequest{{Text: "Mix and bake", Sequence: 1}}

	require.NoError(t, f.service.UpdateRecipe(ctx, res.ID, f.creator.ID.String(), req))

	after, err := f.service.GetRecipeDetail(ctx, res.ID, f.requester(f.creator))
	require.NoError(t, err)
	assert.Equal(t, "Dark Chocolate Cake", after.Name)
	require.Len(t, after.Ingredients, 2)
	assert.Equal(t, keptID, after.Ingredients[0].ID)
	assert.Equal(t, "250g flour", after.Ingredients[0].Text)
	assert.Equal(t, "100g cocoa", after.Ingredients[1].Text)
	require.Len(t, after.Steps, 1)
	assert.Equal(t, int64(2), f.count(t, &entities.RecipeIngredient{}))
	assert.Equal(t, int64(1), f.count(t, &entities.PreparationStep{}))
}

func TestUpdateRecipe_InvalidPayloadLeavesRecipeUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.CreateRecipe(ctx, validRequest(f.category.ID.String()), f.creator.ID.String())
	require.NoError(t, err)

	req := validRequest(f.category.ID.String())
	req.Name = "Changed"
	req.Ingredients = append(req.Ingredients, domain.RecipeChildRequest{Text: "", Sequence: 3})

	err = f.service.UpdateRecipe(ctx, res.ID, f.creator.ID.String(), req)
	assert.Contains(t, fieldErrors(t, err), "ingredients[2].text")

	detail, err := f.service.GetRecipeDetail(ctx, res.ID, f.requester(f.creator))
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Cake", detail.Name)
	assert.Len(t, detail.Ingredients, 2)
}

func TestUpdateRecipe_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := validRequest(f.category.ID.String())
	req.Image = jpegFile(t, "first.jpg")
	res, err := f.service.CreateRecipe(ctx, req, f.creator.ID.String())
	require.NoError(t, err)

	var before entities.Recipe
	require.NoError(t, f.db.First(&before, "id = ?", res.ID).Error)

	req = validRequest(f.category.ID.String())
	req.Image = jpegFile(t, "second.png")
	require.NoError(t, f.service.UpdateRecipe(ctx, res.ID, f.creator.ID.String(), req))

	var after entities.Recipe
	require.NoError(t, f.db.First(&after, "id = ?", res.ID).Error)
	assert.NotEqual(t, before.Image, after.Image)
	assert.False(t, f.fileExists(before.Image))
	assert.True(t, f.fileExists(after.Image))
	assert.Equal(t, entities.DefaultRecipeImage, after.SliderImage)
	assert.Equal(t, []string{before.Image, after.Image}, f.normalizer.keys)
}

func TestUpdateRecipe_UnknownRecipe(t *testing.T) {
	f := newFixture(t)
	req := validRequest(f.category.ID.String())

	for _, id := range []string{"not-a-uuid", "0b9f1c1e-3b52-4c8e-9a57-1b3c1d9e2f00"} {
		err := f.service.UpdateRecipe(context.Background(), id, f.creator.ID.String(), req)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestDeleteRecipe_RemovesOwnedRowsAndImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := validRequest(f.category.ID.String())
	req.Image = jpegFile(t, "cake.jpg")
	req.SliderImage = jpegFile(t, "slider.jpg")
	res, err := f.service.CreateRecipe(ctx, req, f.creator.ID.String())
	require.NoError(t, err)
	f.approve(t, res.ID)

	_, err = f.service.AddNote(ctx, res.ID, f.requester(f.creator), domain.NoteRequest{Content: "freezes well"})
	require.NoError(t, err)
	require.NoError(t, f.service.AddFavorite(ctx, res.ID, f.other.ID.String()))
	_, err = f.reviews.CreateReview(ctx, res.ID, f.other.ID.String(), domain.ReviewRequest{Rating: 4})
	require.NoError(t, err)

	var stored entities.Recipe
	require.NoError(t, f.db.First(&stored, "id = ?", res.ID).Error)

	err = f.service.DeleteRecipe(ctx, res.ID, f.requester(f.other))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.fileExists(stored.Image))

	require.NoError(t, f.service.DeleteRecipe(ctx, res.ID, f.requester(f.creator)))

	for _, model := range []any{
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.PreparationStep{},
		&entities.Note{},
		&entities.RecipeFavorite{},
		&entities.Review{},
	} {
		assert.Zero(t, f.count(t, model), "%T", model)
	}
	assert.False(t, f.fileExists(stored.Image))
	assert.False(t, f.fileExists(stored.SliderImage))

	err = f.service.DeleteRecipe(ctx, res.ID, f.requester(f.creator))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteRecipe_StaffMayDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Pie", f.category.ID, f.creator, true)
	require.NoError(t, f.service.DeleteRecipe(ctx, recipe.ID.String(), f.requester(f.staff)))
	assert.Zero(t, f.count(t, &entities.Recipe{}))
}

func TestGetRecipeDetail_UnapprovedVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Secret", f.category.ID, f.creator, false)
	id := recipe.ID.String()

	_, err := f.service.GetRecipeDetail(ctx, id, domain.Requester{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.service.GetRecipeDetail(ctx, id, f.requester(f.other))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.service.GetRecipeDetail(ctx, id, f.requester(f.creator))
	assert.NoError(t, err)
	_, err = f.service.GetRecipeDetail(ctx, id, f.requester(f.staff))
	assert.NoError(t, err)
}

func TestGetRecipeDetail_RatingAndFavorites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Stew", f.category.ID, f.creator, true)
	id := recipe.ID.String()

	for i, rating := range []int{5, 3, 5} {
		reviewer := testutil.CreateUser(t, f.db, fmt.Sprintf("reviewer%d", i), false)
		_, err := f.reviews.CreateReview(ctx, id, reviewer.ID.String(), domain.ReviewRequest{Rating: rating})
		require.NoError(t, err)
	}
	require.NoError(t, f.service.AddFavorite(ctx, id, f.other.ID.String()))

	detail, err := f.service.GetRecipeDetail(ctx, id, f.requester(f.other))
	require.NoError(t, err)
	assert.InDelta(t, 13.0/3.0, detail.AverageRating, 1e-9)
	assert.Equal(t, 4, detail.Rating)
	assert.Len(t, detail.Reviews, 3)
	assert.Equal(t, int64(1), detail.FavoriteCount)
	assert.True(t, detail.IsFavorited)

	anonymous, err := f.service.GetRecipeDetail(ctx, id, domain.Requester{})
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Soup", f.category.ID, f.creator, true)
	id, userID := recipe.ID.String(), f.other.ID.String()

	favorited, err := f.service.ToggleFavorite(ctx, id, userID)
	require.NoError(t, err)
	assert.True(t, favorited)

	page, err := f.service.ListFavorites(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, id, page.Recipes[0].ID)

	favorited, err = f.service.ToggleFavorite(ctx, id, userID)
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Zero(t, f.count(t, &entities.RecipeFavorite{}))

	require.NoError(t, f.service.AddFavorite(ctx, id, userID))
	require.NoError(t, f.service.AddFavorite(ctx, id, userID))
	assert.Equal(t, int64(1), f.count(t, &entities.RecipeFavorite{}))

	require.NoError(t, f.service.RemoveFavorite(ctx, id, userID))
	require.NoError(t, f.service.RemoveFavorite(ctx, id, userID))
	assert.Zero(t, f.count(t, &entities.RecipeFavorite{}))

	_, err = f.service.ToggleFavorite(ctx, "0b9f1c1e-3b52-4c8e-9a57-1b3c1d9e2f00", userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleFavorite_RowInsertedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Stew", f.category.ID, f.creator, true)
	id, userID := recipe.ID.String(), f.other.ID.String()

	// Another toggle commits its insert between this toggle's delete and
	// insert.
	raced := false
	require.NoError(t, f.db.Callback().Delete().After("gorm:delete").Register("test:concurrent_favorite", func(db *gorm.DB) {
		if _, ok := db.Statement.Model.(*entities.RecipeFavorite); !ok || raced {
			return
		}
		raced = true
		require.NoError(t, db.Session(&gorm.Session{NewDB: true}).Create(&entities.RecipeFavorite{
			RecipeID: recipe.ID,
			UserID:   f.other.ID,
		}).Error)
	}))

	favorited, err := f.service.ToggleFavorite(ctx, id, userID)
	require.NoError(t, err)
	assert.True(t, raced)
	assert.True(t, favorited)
	assert.Equal(t, int64(1), f.count(t, &entities.RecipeFavorite{}))
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Bread", f.category.ID, f.creator, true)
	id := recipe.ID.String()

	_, err := f.service.AddNote(ctx, id, f.requester(f.other), domain.NoteRequest{Content: "mine"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.AddNote(ctx, id, f.requester(f.creator), domain.NoteRequest{})
	assert.Contains(t, fieldErrors(t, err), "content")

	note, err := f.service.AddNote(ctx, id, f.requester(f.creator), domain.NoteRequest{Content: "use rye"})
	require.NoError(t, err)

	err = f.service.DeleteNote(ctx, id, note.ID+100, f.requester(f.creator))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = f.service.DeleteNote(ctx, id, note.ID, f.requester(f.other))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.service.DeleteNote(ctx, id, note.ID, f.requester(f.creator)))
	assert.Zero(t, f.count(t, &entities.Note{}))
}

func TestModerateRecipe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	recipe := testutil.CreateRecipe(t, f.db, "Tart", f.category.ID, f.creator, false)
	id := recipe.ID.String()
	yes := true

	err := f.service.ModerateRecipe(ctx, id, f.requester(f.creator), domain.ModerationRequest{IsApproved: &yes})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.service.ModerateRecipe(ctx, id, f.requester(f.staff), domain.ModerationRequest{
		IsApproved:  &yes,
		IsHighlight: &yes,
	}))

	highlighted, err := f.service.ListHighlighted(ctx)
	require.NoError(t, err)
	require.Len(t, highlighted, 1)
	assert.Equal(t, id, highlighted[0].ID)

	no := false
	require.NoError(t, f.service.ModerateRecipe(ctx, id, f.requester(f.staff), domain.ModerationRequest{IsApproved: &no}))
	page, err := f.service.ListApproved(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Recipes)

	err = f.service.ModerateRecipe(ctx, "0b9f1c1e-3b52-4c8e-9a57-1b3c1d9e2f00", f.requester(f.staff), domain.ModerationRequest{IsApproved: &yes})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
