package middlewares

import (
	"os"
	"strings"
	"time"

	"paygate/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignAdminToken issues a 24h HS256 token for an authenticated admin.
func SignAdminToken(username string) (string, error) {
	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "paygate",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("ADMIN_JWT_SECRET")))
}

func AdminAuth(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "MISSING_BEARER_TOKEN")
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims,
		func(t *jwt.Token) (any, error) {
			return []byte(os.Getenv("ADMIN_JWT_SECRET")), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_TOKEN")
	}

	c.Locals("admin_username", claims.Username)
	return c.Next()
}
