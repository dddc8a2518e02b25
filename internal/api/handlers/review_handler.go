package handlers

import (
	"github.com/gofiber/fiber/v2"

	"recipe-website/domain"
	"recipe-website/internal/api/presenters"
	"recipe-website/pkg/review"
)

type (
	ReviewHandler interface {
		ListReviews(c *fiber.Ctx) error
		CreateReview(c *fiber.Ctx) error
		UpdateReview(c *fiber.Ctx) error
		DeleteReview(c *fiber.Ctx) error
	}

	reviewHandler struct {
		reviewService review.ReviewService
	}
)

func NewReviewHandler(reviewService review.ReviewService) ReviewHandler {
	return &reviewHandler{
		reviewService: reviewService,
	}
}

func (h *reviewHandler) ListReviews(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	reviews, err := h.reviewService.ListReviews(c.UserContext(), recipeID)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetReviews, err)
	}
	avg, err := h.reviewService.AverageRating(c.UserContext(), recipeID)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"reviews":        reviews,
		"average_rating": avg,
		"rating":         review.RoundRating(avg),
	}, fiber.StatusOK, domain.MessageSuccessGetReviews)
}

func (h *reviewHandler) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ReviewRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.reviewService.CreateReview(c.UserContext(), c.Params("id"), userID, *req)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedCreateReview, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateReview)
}

func (h *reviewHandler) UpdateReview(c *fiber.Ctx) error {
	req := new(domain.ReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.reviewService.UpdateReview(c.UserContext(), c.Params("id"), requester(c), *req)
	if err != nil {
		return presenters.FailResponse(c, domain.MessageFailedUpdateReview, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateReview)
}

func (h *reviewHandler) DeleteReview(c *fiber.Ctx) error {
	if err := h.reviewService.DeleteReview(c.UserContext(), c.Params("id"), requester(c)); err != nil {
		return presenters.FailResponse(c, domain.MessageFailedDeleteReview, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteReview)
}
