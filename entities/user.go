package entities

import (
	"github.com/google/uuid"
)

const DefaultAvatar = "profile_images/default.png"

type User struct {
	Base
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Username  string     `gorm:"uniqueIndex;size:200;not null" json:"username"`
	Password  string     `gorm:"not null" json:"-"`
	FirstName string     `gorm:"size:150" json:"first_name"`
	LastName  string     `gorm:"size:150" json:"last_name"`
	Bio       string     `gorm:"type:text" json:"bio"`
	Phone     string     `json:"phone"`
	Avatar    string     `gorm:"default:profile_images/default.png" json:"avatar"`
	CityID    *uuid.UUID `gorm:"type:uuid" json:"city_id,omitempty"`
	IsStaff   bool       `gorm:"default:false" json:"is_staff"`

	City        *Place         `gorm:"foreignKey:CityID;constraint:OnDelete:RESTRICT"`
	SocialMedia []*SocialMedia `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type Place struct {
	Base
	City      string  `gorm:"not null" json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Icon struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	HTMLClass string `gorm:"not null" json:"html_class"`
}

type SocialMedia struct {
	Base
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SocialName  string     `json:"social_name"`
	ProfileName string     `json:"profile_name"`
	Link        string     `json:"link"`
	IconID      *uuid.UUID `gorm:"type:uuid" json:"icon_id,omitempty"`

	Icon *Icon `gorm:"foreignKey:IconID;constraint:OnDelete:RESTRICT"`
}

func (SocialMedia) TableName() string {
	return "social_media"
}
