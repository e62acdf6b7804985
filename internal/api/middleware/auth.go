/**
 * @description
 * Admin authentication middleware.
 * Validates HS256-signed service tokens on protected routes. Tokens are
 * minted out-of-band with the shared ADMIN_JWT_SECRET; there is no user
 * identity here, only service-to-service trust.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/golang-jwt/jwt/v5
 */

package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hypetrack/backend/internal/config"
)

var adminSecret []byte

// InitAuthMiddleware stores the shared secret used to validate service
// tokens. Returns an error when the secret is unset; protected routes then
// reject every request.
func InitAuthMiddleware(cfg *config.Config) error {
	secret := strings.TrimSpace(cfg.Services.AdminJWTSecret)
	if secret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is not configured")
	}
	adminSecret = []byte(secret)
	return nil
}

// Protected returns a middleware that requires a valid service token.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(adminSecret) == 0 {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Admin authentication is not configured",
			})
		}

		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return adminSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		return c.Next()
	}
}
