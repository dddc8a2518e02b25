package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"recipe-website/domain"
	"recipe-website/internal/api/presenters"
	"recipe-website/pkg/recipe"
)

type (
	RecipeHandler interface {
		ListRecipes(c *fiber.Ctx) error
		ListHighlighted(c *fiber.Ctx) error
		Search(c *fiber.Ctx) error
		ListByCategory(c *fiber.Ctx) error
		ListFavorites(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		ToggleFavorite(c *fiber.Ctx) error
		AddNote(c *fiber.Ctx) error
		DeleteNote(c *fiber.Ctx) error
		ModerateRecipe(c *fiber.Ctx) error
		ListPending(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
	}
}

func (h *recipeHandler) ListRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.ListApproved(c.UserContext(), domain.ParsePage(c.Query("page")))
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) ListHighlighted(c *fiber.Ctx) error {
	res, err := h.recipeService.ListHighlighted(c.UserContext())
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"recipes": res}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	res, err := h.recipeService.Search(c.UserContext(), query, domain.ParsePage(c.Query("page")))
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{
		"query":      query,
		"recipes":    res.Recipes,
		"pagination": res.Pagination,
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) ListByCategory(c *fiber.Ctx) error {
	res, err := h.recipeService.ListByCategory(c.UserContext(), c.Params("id"), domain.ParsePage(c.Query("page")))
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) ListFavorites(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.ListFavorites(c.UserContext(), userID, domain.ParsePage(c.Query("page")))
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetFavorites, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFavorites)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.UserContext(), c.Params("id"), requester(c))
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req, err := recipeRequest(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.CreateRecipe(c.UserContext(), req, userID)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req, err := recipeRequest(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.UpdateRecipe(c.UserContext(), c.Params("id"), userID, req); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.UserContext(), c.Params("id"), requester(c)); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) ToggleFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	favorited, err := h.recipeService.ToggleFavorite(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedToggleFavorite, err)
	}
	return presenters.SuccessResponse(c, domain.ToggleFavoriteResponse{Favorited: favorited}, fiber.StatusOK, domain.MessageSuccessToggleFavorite)
}

func (h *recipeHandler) AddNote(c *fiber.Ctx) error {
	req := new(domain.NoteRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.AddNote(c.UserContext(), c.Params("id"), requester(c), *req)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedAddNote, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddNote)
}

func (h *recipeHandler) DeleteNote(c *fiber.Ctx) error {
	noteID, err := strconv.ParseUint(c.Params("noteId"), 10, 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteNote, domain.ErrNoteNotFound)
	}

	if err := h.recipeService.DeleteNote(c.UserContext(), c.Params("id"), uint(noteID), requester(c)); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedDeleteNote, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteNote)
}

func (h *recipeHandler) ModerateRecipe(c *fiber.Ctx) error {
	req := new(domain.ModerationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.ModerateRecipe(c.UserContext(), c.Params("id"), requester(c), *req); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedModerateRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessModerateRecipe)
}

func (h *recipeHandler) ListPending(c *fiber.Ctx) error {
	res, err := h.recipeService.ListPending(c.UserContext(), requester(c), domain.ParsePage(c.Query("page")))
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

// recipeRequest reads the recipe fields plus the optional "image" and
// "slider_image" uploads.
func recipeRequest(c *fiber.Ctx) (domain.RecipeRequest, error) {
	var req domain.RecipeRequest
	if err := parseBody(c, &req); err != nil {
		return req, err
	}

	var err error
	if req.Image, err = formImage(c, "image"); err != nil {
		return req, err
	}
	if req.SliderImage, err = formImage(c, "slider_image"); err != nil {
		return req, err
	}
	return req, nil
}
