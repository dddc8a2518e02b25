package handlers

import (
	"github.com/gofiber/fiber/v2"

	"recipe-website/domain"
	"recipe-website/internal/api/presenters"
	"recipe-website/pkg/category"
)

type (
	CategoryHandler interface {
		ListCategories(c *fiber.Ctx) error
		CreateCategory(c *fiber.Ctx) error
		DeleteCategory(c *fiber.Ctx) error
		ListPlaces(c *fiber.Ctx) error
		CreatePlace(c *fiber.Ctx) error
		ListIcons(c *fiber.Ctx) error
		CreateIcon(c *fiber.Ctx) error
		DeleteIcon(c *fiber.Ctx) error
	}

	categoryHandler struct {
		categoryService category.CategoryService
	}
)

func NewCategoryHandler(categoryService category.CategoryService) CategoryHandler {
	return &categoryHandler{
		categoryService: categoryService,
	}
}

func (h *categoryHandler) ListCategories(c *fiber.Ctx) error {
	res, err := h.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetCategories, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *categoryHandler) CreateCategory(c *fiber.Ctx) error {
	req := new(domain.CategoryRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.categoryService.CreateCategory(c.UserContext(), *req)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedCreateCategory, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCategory)
}

func (h *categoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categoryService.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedDeleteCategory, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteCategory)
}

func (h *categoryHandler) ListPlaces(c *fiber.Ctx) error {
	res, err := h.categoryService.ListPlaces(c.UserContext())
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetPlaces, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPlaces)
}

func (h *categoryHandler) CreatePlace(c *fiber.Ctx) error {
	req := new(domain.PlaceRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.categoryService.CreatePlace(c.UserContext(), *req)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedCreatePlace, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreatePlace)
}

func (h *categoryHandler) ListIcons(c *fiber.Ctx) error {
	res, err := h.categoryService.ListIcons(c.UserContext())
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetIcons, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIcons)
}

func (h *categoryHandler) CreateIcon(c *fiber.Ctx) error {
	req := new(domain.IconRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.categoryService.CreateIcon(c.UserContext(), *req)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedCreateIcon, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateIcon)
}

func (h *categoryHandler) DeleteIcon(c *fiber.Ctx) error {
	if err := h.categoryService.DeleteIcon(c.UserContext(), c.Params("id")); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedDeleteIcon, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteIcon)
}
