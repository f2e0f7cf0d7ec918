package admin

import (
	"strings"

	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER STAFF"`
}

// GET /api/admin/users (ADMIN only)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("created_at asc").Find(&users).Error; err != nil {
			logger.LogError("admin", "ListUsersHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}
		return c.JSON(users)
	}
}

// POST /api/admin/users (ADMIN only)
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var existing models.User
		if err := database.DB.First(&existing, "email = ?", body.Email).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This email is already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.UserRole(body.Role),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			logger.LogError("admin", "CreateUserHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}
