package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/contractsdb/internal/config"
	"github.com/localnerve/contractsdb/internal/services"
	"github.com/localnerve/contractsdb/internal/types"
)

// SessionValidator resolves a session cookie to the session user
type SessionValidator func(cookie string, roles []string) (map[string]interface{}, error)

// AuthUser validates that the request has user role authorization.
// The Authorizer client is created on the first authenticated request.
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusServiceUnavailable,
					Message: fmt.Sprintf("Authorizer unavailable: %v", err),
					Type:    "contracts.authorization.user",
				}
			}
		}
		return authorize(c, services.ValidateSession, []string{"user"}, "contracts.authorization.user")
	}
}

// AuthWith validates sessions with the given validator, for callers that bring their own
func AuthWith(validate SessionValidator, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, validate, roles, "contracts.authorization.user")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, validate SessionValidator, roles []string, errorType string) error {
	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Validate session
	user, err := validate(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	c.Locals("user", user)

	return c.Next()
}
