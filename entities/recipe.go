package entities

import (
	"time"

	"github.com/google/uuid"
)

const DefaultRecipeImage = "recipes/default.jpg"

type Category struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

type Recipe struct {
	Base
	Name        string     `gorm:"size:255;not null" json:"name"`
	Image       string     `gorm:"default:recipes/default.jpg" json:"image"`
	SliderImage string     `gorm:"default:recipes/default.jpg" json:"slider_image"`
	Difficulty  int        `gorm:"check:difficulty BETWEEN 1 AND 5" json:"difficulty"`
	Duration    int        `gorm:"check:duration >= 1" json:"duration"`
	Description string     `gorm:"type:text" json:"description"`
	CategoryID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	CreatorID   *uuid.UUID `gorm:"type:uuid;index:idx_recipes_creator_approved" json:"creator_id,omitempty"`
	IsHighlight bool       `gorm:"default:false" json:"is_highlight"`
	IsApproved  bool       `gorm:"default:false;index:idx_recipes_creator_approved" json:"is_approved"`

	Category    *Category           `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Creator     *User               `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Steps       []*PreparationStep  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Notes       []*Note             `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"type:timestamp;index" json:"updated_at"`
}

type RecipeIngredient struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Sequence int       `gorm:"check:sequence >= 1" json:"sequence"`
}

type PreparationStep struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Sequence int       `gorm:"check:sequence >= 1" json:"sequence"`
}

type Note struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Content  string    `gorm:"type:text" json:"content"`
}

// RecipeFavorite is the favoriting set between users and recipes.
type RecipeFavorite struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Review struct {
	Base
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
