// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	migration "recipe-website/cmd/database/migrate"
	"recipe-website/entities"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string, staff bool) *entities.User {
	t.Helper()
	user := &entities.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "x",
		Avatar:   entities.DefaultAvatar,
		IsStaff:  staff,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *entities.Category {
	t.Helper()
	category := &entities.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateRecipe inserts a recipe row directly, bypassing the service.
func CreateRecipe(t *testing.T, db *gorm.DB, name string, categoryID uuid.UUID, creator *entities.User, approved bool) *entities.Recipe {
	t.Helper()
	recipe := &entities.Recipe{
		Name:        name,
		Image:       entities.DefaultRecipeImage,
		SliderImage: entities.DefaultRecipeImage,
		Difficulty:  2,
		Duration:    30,
		CategoryID:  categoryID,
		IsApproved:  approved,
	}
	if creator != nil {
		recipe.CreatorID = &creator.ID
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func AddIngredient(t *testing.T, db *gorm.DB, recipeID uuid.UUID, text string, sequence int) {
	t.Helper()
	require.NoError(t, db.Create(&entities.RecipeIngredient{RecipeID: recipeID, Text: text, Sequence: sequence}).Error)
}
