package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipe-website/domain"
	"recipe-website/entities"
	"recipe-website/internal/api/presenters"
	"recipe-website/internal/logging"
	"recipe-website/pkg/jwt"
)

const (
	// RecipeCreateLimit is how many recipes one user may submit per
	// RecipeCreateWindow.
	RecipeCreateLimit  = 20
	RecipeCreateWindow = time.Hour

	requestIDHeader = "X-Request-ID"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		RecoverMiddleware() fiber.Handler
		RequestContext() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		AdminMiddleware() fiber.Handler
		RecipeCreateLimiter() fiber.Handler
	}

	// UserLookup loads the account behind a token, so staff status follows
	// the user row rather than the role claimed at login.
	UserLookup interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	middleware struct {
		users UserLookup
	}
)

func NewMiddleware(users UserLookup) Middleware {
	return &middleware{users: users}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + requestIDHeader,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

func (m *middleware) RecoverMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logging.Ctx(c.UserContext()).Error().
				Interface("panic", e).
				Str("path", c.Path()).
				Msg("recovered from panic")
		},
	})
}

// RequestContext tags the request with an id, taken from X-Request-ID when
// the client sent one, and makes it available to loggers downstream.
func (m *middleware) RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = logging.GenerateRequestID()
		}
		c.Set(requestIDHeader, id)
		c.SetUserContext(logging.ContextWithRequestID(c.UserContext(), id))

		start := time.Now()
		err := c.Next()

		logging.Ctx(c.UserContext()).Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, _, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		role, err := m.currentRole(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrTokenInvalid) {
				return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
			}
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent
// and lets anonymous requests through otherwise.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if userID, _, err := jwtService.GetUserIDByToken(token); err == nil {
				if role, err := m.currentRole(c.UserContext(), userID); err == nil {
					c.Locals("user_id", userID)
					c.Locals("role", role)
				}
			}
		}
		return c.Next()
	}
}

// currentRole reports ErrTokenInvalid when the token's user no longer exists.
func (m *middleware) currentRole(ctx context.Context, userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", domain.ErrTokenInvalid
	}
	user, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrTokenInvalid
		}
		return "", err
	}
	if user.IsStaff {
		return domain.RoleAdmin, nil
	}
	return domain.RoleUser, nil
}

func (m *middleware) AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != domain.RoleAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageUserNotAllowed, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}

// RecipeCreateLimiter must run after AuthMiddleware; it counts per user.
func (m *middleware) RecipeCreateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        RecipeCreateLimit,
		Expiration: RecipeCreateWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
				return "recipe-create:" + userID
			}
			return "recipe-create:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, domain.MessageTooManyRequests, nil)
		},
	})
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
