package migration

import (
	"gorm.io/gorm"

	"recipe-website/entities"
	"recipe-website/internal/logging"
)

var defaultCategories = []string{
	"Breakfast",
	"Main Course",
	"Desserts",
	"Vegan",
	"Drinks",
}

var defaultIcons = []entities.Icon{
	{Name: "Instagram", HTMLClass: "fab fa-instagram"},
	{Name: "Facebook", HTMLClass: "fab fa-facebook"},
	{Name: "YouTube", HTMLClass: "fab fa-youtube"},
	{Name: "TikTok", HTMLClass: "fab fa-tiktok"},
	{Name: "X", HTMLClass: "fab fa-x-twitter"},
}

// Seed inserts the default categories and icons when their tables are empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entities.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		for _, name := range defaultCategories {
			if err := db.Create(&entities.Category{Name: name}).Error; err != nil {
				return err
			}
		}
		logging.Info().Int("count", len(defaultCategories)).Msg("seeded categories")
	}

	if err := db.Model(&entities.Icon{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		for _, icon := range defaultIcons {
			icon := icon
			if err := db.Create(&icon).Error; err != nil {
				return err
			}
		}
		logging.Info().Int("count", len(defaultIcons)).Msg("seeded icons")
	}
	return nil
}
