package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

const userIDKey = "userID"

// RequireLogin gates a route on a valid session token, taken from the
// Authorization bearer header or the user_token cookie. Verification
// is purely cryptographic; no store lookup happens here.
func RequireLogin(jwt *utils.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies("user_token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": false, "message": "Invalid Login Details"})
		}
		userID, err := jwt.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": false, "message": "Invalid Login Details"})
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated account id set by RequireLogin.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(userIDKey).(string); ok {
		return v
	}
	return ""
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
