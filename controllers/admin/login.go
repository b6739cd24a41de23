package admin

import (
	"paygate/database"
	"paygate/helpers"
	"paygate/middlewares"
	"paygate/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	if req.Username == "" || req.Password == "" {
		return helpers.JSONError(c, "USERNAME_AND_PASSWORD_REQUIRED")
	}

	var adminUser models.AdminUser
	if err := database.DB.Where("username = ? AND is_active = true", req.Username).First(&adminUser).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.PasswordHash), []byte(req.Password)); err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS")
	}

	token, err := middlewares.SignAdminToken(adminUser.Username)
	if err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusInternalServerError, "FAILED_TO_SIGN_TOKEN")
	}

	return helpers.JSONSuccess(c, "Login successful", fiber.Map{
		"token": token,
	})
}
