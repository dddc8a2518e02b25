package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"recipe-website/internal/api/handlers"
	"recipe-website/internal/api/routes"
	"recipe-website/internal/logging"
	"recipe-website/internal/middleware"
	"recipe-website/internal/utils"
	"recipe-website/internal/utils/mailing"
	"recipe-website/internal/utils/storage"
	"recipe-website/pkg/category"
	"recipe-website/pkg/jwt"
	"recipe-website/pkg/media"
	"recipe-website/pkg/recipe"
	"recipe-website/pkg/review"
	"recipe-website/pkg/user"
)

// bodyLimit leaves room for a recipe's two images plus its JSON.
const bodyLimit = 12 * 1024 * 1024

// Dependencies are the outside-world collaborators of the app.
type Dependencies struct {
	DB         *gorm.DB
	Storage    storage.Storage
	Mailer     mailing.Mailer
	JWTService jwt.JWTService
	AppURL     string
	// MediaRoot is served under /media when set.
	MediaRoot string
	// Middlewares run before every route.
	Middlewares []fiber.Handler
}

// NewApp builds the production app from configuration.
func NewApp(db *gorm.DB) (*fiber.App, error) {
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
		Output: io.MultiWriter(os.Stdout, file),
	})

	store, mediaRoot, err := newStorage()
	if err != nil {
		return nil, err
	}

	deps := Dependencies{
		DB:         db,
		Storage:    store,
		Mailer:     mailing.NewMailer(mailing.LoadMailConfig()),
		JWTService: jwt.NewJWTService(),
		AppURL:     utils.GetConfig("APP_URL"),
		MediaRoot:  mediaRoot,
		Middlewares: []fiber.Handler{
			logger.New(logger.Config{
				TimeFormat: "2006-01-02 15:04:05",
				Output:     file,
			}),
			limiter.New(limiter.Config{
				Max:        10,
				Expiration: 1 * time.Second,
			}),
		},
	}
	return NewAppWithDependencies(deps), nil
}

func newStorage() (storage.Storage, string, error) {
	switch driver := utils.GetConfig("STORAGE_DRIVER"); driver {
	case "s3":
		s3, err := storage.NewAwsS3(context.Background())
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	case "local":
		root, err := filepath.Abs(utils.GetConfig("MEDIA_ROOT"))
		if err != nil {
			return nil, "", err
		}
		baseURL := utils.GetConfig("APP_URL") + "/media"
		return storage.NewLocalStorage(root, baseURL), root, nil
	default:
		return nil, "", fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

func NewAppWithDependencies(deps Dependencies) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         bodyLimit,
	})
	validator := utils.Validate

	for _, handler := range deps.Middlewares {
		app.Use(handler)
	}
	if deps.MediaRoot != "" {
		app.Static("/media", deps.MediaRoot)
	}

	// utils
	normalizer := media.NewNormalizer(deps.Storage)

	// Repository
	userRepository := user.NewUserRepository(deps.DB)
	recipeRepository := recipe.NewRecipeRepository(deps.DB)
	reviewRepository := review.NewReviewRepository(deps.DB)
	categoryRepository := category.NewCategoryRepository(deps.DB)

	middlewares := middleware.NewMiddleware(userRepository)

	// Service
	reviewService := review.NewReviewService(reviewRepository, validator)
	recipeService := recipe.NewRecipeService(recipeRepository, reviewService, deps.Storage, normalizer, validator)
	userService := user.NewUserService(
		userRepository,
		recipeService,
		deps.JWTService,
		deps.Storage,
		normalizer,
		deps.Mailer,
		validator,
		deps.AppURL,
	)
	categoryService := category.NewCategoryService(categoryRepository, validator)

	// Handler
	userHandler := handlers.NewUserHandler(userService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		RecipeHandler:   recipeHandler,
		ReviewHandler:   reviewHandler,
		CategoryHandler: categoryHandler,
		Middleware:      middlewares,
		JWTService:      deps.JWTService,
	}
	routesConfig.Setup()
	return app
}
