package migration

import (
	"gorm.io/gorm"

	"recipe-website/entities"
	"recipe-website/internal/logging"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.Place{},
		&entities.Icon{},
		&entities.User{},
		&entities.SocialMedia{},
		&entities.Category{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.PreparationStep{},
		&entities.Note{},
		&entities.RecipeFavorite{},
		&entities.Review{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			logging.Error().Err(err).Msgf("error migrating %T", model)
			return err
		}
	}

	logging.Info().Msg("database migration complete")
	return nil
}
