package recipe

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipe-website/entities"
)

type (
	// RecipeFilter narrows listing queries. Zero values do not filter.
	RecipeFilter struct {
		ApprovedOnly  bool
		PendingOnly   bool
		HighlightOnly bool
		CategoryID    string
		CreatorID     string
		FavoritedBy   string
		// Query matches the recipe name or any ingredient text,
		// case-insensitively.
		Query string
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, steps []*entities.PreparationStep) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipeDetail(ctx context.Context, id string) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, steps []*entities.PreparationStep) error
		UpdateModeration(ctx context.Context, id string, fields map[string]any) error
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipes(ctx context.Context, filter RecipeFilter, offset, limit int) ([]*entities.Recipe, error)
		CountRecipes(ctx context.Context, filter RecipeFilter) (int64, error)
		CategoryExists(ctx context.Context, id string) (bool, error)

		AddFavorite(ctx context.Context, recipeID, userID string) error
		RemoveFavorite(ctx context.Context, recipeID, userID string) error
		ToggleFavorite(ctx context.Context, recipeID, userID string) (bool, error)
		IsFavorited(ctx context.Context, recipeID, userID string) (bool, error)
		CountFavorites(ctx context.Context, recipeID string) (int64, error)

		AddNote(ctx context.Context, note *entities.Note) error
		GetNoteByID(ctx context.Context, recipeID string, noteID uint) (*entities.Note, error)
		DeleteNote(ctx context.Context, noteID uint) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, steps []*entities.PreparationStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		for _, ingredient := range ingredients {
			ingredient.ID = 0
			ingredient.RecipeID = recipe.ID
			if err := tx.Create(ingredient).Error; err != nil {
				return err
			}
		}
		for _, step := range steps {
			step.ID = 0
			step.RecipeID = recipe.ID
			if err := tx.Create(step).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Creator").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipeDetail(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Creator").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence asc, id asc")
		}).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence asc, id asc")
		}).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe saves the scalar fields of recipe and makes the stored
// ingredient and step collections equal to the given ones: rows with a
// known id are updated, the rest inserted, and missing rows deleted.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, steps []*entities.PreparationStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if err := syncIngredients(tx, recipe.ID, ingredients); err != nil {
			return err
		}
		return syncSteps(tx, recipe.ID, steps)
	})
}

func syncIngredients(tx *gorm.DB, recipeID uuid.UUID, ingredients []*entities.RecipeIngredient) error {
	existing, err := childIDs(tx, &entities.RecipeIngredient{}, recipeID)
	if err != nil {
		return err
	}

	keep := make([]uint, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ingredient.RecipeID = recipeID
		if _, ok := existing[ingredient.ID]; ok && ingredient.ID != 0 {
			if err := tx.Model(&entities.RecipeIngredient{}).
				Where("id = ?", ingredient.ID).
				Updates(map[string]any{"text": ingredient.Text, "sequence": ingredient.Sequence}).Error; err != nil {
				return err
			}
			keep = append(keep, ingredient.ID)
			continue
		}
		ingredient.ID = 0
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}
		keep = append(keep, ingredient.ID)
	}

	return deleteOtherChildren(tx, &entities.RecipeIngredient{}, recipeID, keep)
}

func syncSteps(tx *gorm.DB, recipeID uuid.UUID, steps []*entities.PreparationStep) error {
	existing, err := childIDs(tx, &entities.PreparationStep{}, recipeID)
	if err != nil {
		return err
	}

	keep := make([]uint, 0, len(steps))
	for _, step := range steps {
		step.RecipeID = recipeID
		if _, ok := existing[step.ID]; ok && step.ID != 0 {
			if err := tx.Model(&entities.PreparationStep{}).
				Where("id = ?", step.ID).
				Updates(map[string]any{"text": step.Text, "sequence": step.Sequence}).Error; err != nil {
				return err
			}
			keep = append(keep, step.ID)
			continue
		}
		step.ID = 0
		if err := tx.Create(step).Error; err != nil {
			return err
		}
		keep = append(keep, step.ID)
	}

	return deleteOtherChildren(tx, &entities.PreparationStep{}, recipeID, keep)
}

func childIDs(tx *gorm.DB, model any, recipeID uuid.UUID) (map[uint]struct{}, error) {
	var ids []uint
	if err := tx.Model(model).Where("recipe_id = ?", recipeID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func deleteOtherChildren(tx *gorm.DB, model any, recipeID uuid.UUID, keep []uint) error {
	q := tx.Where("recipe_id = ?", recipeID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(model).Error
}

func (r *recipeRepository) UpdateModeration(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRecipe removes the recipe row together with everything it owns.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []any{
			&entities.RecipeFavorite{},
			&entities.Review{},
			&entities.Note{},
			&entities.PreparationStep{},
			&entities.RecipeIngredient{},
		}
		for _, model := range owned {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recipeRepository) filtered(ctx context.Context, filter RecipeFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.ApprovedOnly {
		query = query.Where("recipes.is_approved = ?", true)
	}
	if filter.PendingOnly {
		query = query.Where("recipes.is_approved = ?", false)
	}
	if filter.HighlightOnly {
		query = query.Where("recipes.is_highlight = ?", true)
	}
	if filter.CategoryID != "" {
		query = query.Where("recipes.category_id = ?", filter.CategoryID)
	}
	if filter.CreatorID != "" {
		query = query.Where("recipes.creator_id = ?", filter.CreatorID)
	}
	if filter.FavoritedBy != "" {
		favorites := r.db.Model(&entities.RecipeFavorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorites)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Query)) + "%"
		// Matching through a subquery keeps each recipe once no matter how
		// many of its ingredients match.
		ingredients := r.db.Model(&entities.RecipeIngredient{}).
			Select("recipe_id").
			Where(`LOWER(text) LIKE ? ESCAPE '\'`, pattern)
		query = query.Where(`(LOWER(recipes.name) LIKE ? ESCAPE '\' OR recipes.id IN (?))`, pattern, ingredients)
	}
	return query
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter RecipeFilter, offset, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.filtered(ctx, filter).
		Preload("Category").
		Preload("Creator").
		Order("recipes.updated_at desc").
		Order("recipes.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipes(ctx context.Context, filter RecipeFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Category{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) AddFavorite(ctx context.Context, recipeID, userID string) error {
	favorite, err := newFavorite(recipeID, userID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favorite).Error
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, recipeID, userID string) error {
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&entities.RecipeFavorite{}).Error
}

// ToggleFavorite flips the membership and reports whether the user
// favorites the recipe afterwards.
func (r *recipeRepository) ToggleFavorite(ctx context.Context, recipeID, userID string) (bool, error) {
	favorite, err := newFavorite(recipeID, userID)
	if err != nil {
		return false, err
	}

	favorited := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&entities.RecipeFavorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// A concurrent toggle may have inserted the row since the delete.
		favorited = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error
	})
	return favorited, err
}

func newFavorite(recipeID, userID string) (*entities.RecipeFavorite, error) {
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, err
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	return &entities.RecipeFavorite{RecipeID: recipeUUID, UserID: userUUID}, nil
}

func (r *recipeRepository) IsFavorited(ctx context.Context, recipeID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeFavorite{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) CountFavorites(ctx context.Context, recipeID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeFavorite{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) AddNote(ctx context.Context, note *entities.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *recipeRepository) GetNoteByID(ctx context.Context, recipeID string, noteID uint) (*entities.Note, error) {
	var note entities.Note
	if err := r.db.WithContext(ctx).
		Where("id = ? AND recipe_id = ?", noteID, recipeID).
		First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *recipeRepository) DeleteNote(ctx context.Context, noteID uint) error {
	return r.db.WithContext(ctx).Delete(&entities.Note{}, noteID).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
