package routes

import (
	"github.com/gofiber/fiber/v2"

	"recipe-website/internal/api/handlers"
	"recipe-website/internal/middleware"
	"recipe-website/pkg/jwt"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	RecipeHandler   handlers.RecipeHandler
	ReviewHandler   handlers.ReviewHandler
	CategoryHandler handlers.CategoryHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.RecoverMiddleware())
	c.App.Use(c.Middleware.RequestContext())
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Recipes()
	c.Reviews()
	c.ReferenceData()
	c.Admin()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Get("/me/favorites", auth, c.RecipeHandler.ListFavorites)
		user.Patch("/update", auth, c.UserHandler.UpdateUser)
		user.Post("/password", auth, c.UserHandler.ChangePassword)
		user.Post("/socials", auth, c.UserHandler.AddSocialMedia)
		user.Delete("/socials/:id", auth, c.UserHandler.DeleteSocialMedia)
		user.Get("/:id", c.UserHandler.GetProfile)
		user.Delete("/:id", auth, c.UserHandler.DeleteUser)
	}
}

func (c *Config) Recipes() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	recipes := c.App.Group("/api/v1/recipes")

	recipes.Get("", c.RecipeHandler.ListRecipes)
	recipes.Get("/highlights", c.RecipeHandler.ListHighlighted)
	recipes.Get("/search", c.RecipeHandler.Search)
	recipes.Post("", auth, c.Middleware.RecipeCreateLimiter(), c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipe)
	recipes.Put("/:id", auth, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", auth, c.RecipeHandler.ToggleFavorite)
	recipes.Post("/:id/notes", auth, c.RecipeHandler.AddNote)
	recipes.Delete("/:id/notes/:noteId", auth, c.RecipeHandler.DeleteNote)
	recipes.Get("/:id/reviews", c.ReviewHandler.ListReviews)
	recipes.Post("/:id/reviews", auth, c.ReviewHandler.CreateReview)
}

func (c *Config) Reviews() {
	reviews := c.App.Group("/api/v1/reviews", c.Middleware.AuthMiddleware(c.JWTService))
	reviews.Put("/:id", c.ReviewHandler.UpdateReview)
	reviews.Delete("/:id", c.ReviewHandler.DeleteReview)
}

func (c *Config) ReferenceData() {
	v1 := c.App.Group("/api/v1")
	v1.Get("/categories", c.CategoryHandler.ListCategories)
	v1.Get("/categories/:id/recipes", c.RecipeHandler.ListByCategory)
	v1.Get("/places", c.CategoryHandler.ListPlaces)
	v1.Get("/icons", c.CategoryHandler.ListIcons)
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.AdminMiddleware(),
	)
	admin.Get("/recipes/pending", c.RecipeHandler.ListPending)
	admin.Patch("/recipes/:id", c.RecipeHandler.ModerateRecipe)
	admin.Post("/categories", c.CategoryHandler.CreateCategory)
	admin.Delete("/categories/:id", c.CategoryHandler.DeleteCategory)
	admin.Post("/places", c.CategoryHandler.CreatePlace)
	admin.Post("/icons", c.CategoryHandler.CreateIcon)
	admin.Delete("/icons/:id", c.CategoryHandler.DeleteIcon)
}
