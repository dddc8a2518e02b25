package domain

import (
	"fmt"
)

var (
	MessageSuccessGetCategories  = "success get categories"
	MessageSuccessCreateCategory = "category created successfully"
	MessageSuccessDeleteCategory = "category deleted successfully"
	MessageSuccessGetPlaces      = "success get places"
	MessageSuccessCreatePlace    = "place created successfully"
	MessageSuccessGetIcons       = "success get icons"
	MessageSuccessCreateIcon     = "icon created successfully"
	MessageSuccessDeleteIcon     = "icon deleted successfully"

	MessageFailedGetCategories  = "failed to get categories"
	MessageFailedCreateCategory = "failed to create category"
	MessageFailedDeleteCategory = "failed to delete category"
	MessageFailedGetPlaces      = "failed to get places"
	MessageFailedCreatePlace    = "failed to create place"
	MessageFailedGetIcons       = "failed to get icons"
	MessageFailedCreateIcon     = "failed to create icon"
	MessageFailedDeleteIcon     = "failed to delete icon"

	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrIconNotFound     = fmt.Errorf("icon %w", ErrNotFound)
	ErrPlaceNotFound    = fmt.Errorf("place %w", ErrNotFound)
	ErrCategoryInUse    = fmt.Errorf("category is referenced by recipes: %w", ErrConflict)
	ErrIconInUse        = fmt.Errorf("icon is referenced by social media: %w", ErrConflict)
)

type (
	CategoryRequest struct {
		Name string `json:"name" validate:"required,max=255"`
	}

	CategoryResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	PlaceRequest struct {
		City      string  `json:"city" validate:"required,max=255"`
		Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
		Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	}

	PlaceResponse struct {
		ID        string  `json:"id"`
		City      string  `json:"city"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	IconRequest struct {
		Name      string `json:"name" validate:"required,max=255"`
		HTMLClass string `json:"html_class" validate:"required,max=255"`
	}

	IconResponse struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		HTMLClass string `json:"html_class"`
	}
)
