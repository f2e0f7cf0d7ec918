package supplier

import (
	"strings"

	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// GET /api/suppliers
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			logger.LogError("supplier", "ListHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

// GET /api/suppliers/:id returns the supplier with their five latest purchases.
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var purchases []models.Purchase
		if err := database.DB.
			Where("supplier_id = ?", s.ID).
			Order("purchase_date DESC").
			Limit(5).
			Find(&purchases).Error; err != nil {
			logger.LogError("supplier", "GetHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load supplier purchases")
		}

		return c.JSON(fiber.Map{
			"supplier":         s,
			"recent_purchases": purchases,
		})
	}
}

// POST /api/suppliers (ADMIN, MANAGER)
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s := models.Supplier{
			Name:        strings.TrimSpace(body.Name),
			ContactName: body.ContactName,
			Email:       body.Email,
			Phone:       body.Phone,
			Address:     body.Address,
		}
		if err := database.DB.Create(&s).Error; err != nil {
			logger.LogError("supplier", "CreateHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create supplier")
		}

		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// PUT /api/suppliers/:id (ADMIN, MANAGER)
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s.Name = strings.TrimSpace(body.Name)
		s.ContactName = body.ContactName
		s.Email = body.Email
		s.Phone = body.Phone
		s.Address = body.Address

		if err := database.DB.Save(&s).Error; err != nil {
			logger.LogError("supplier", "UpdateHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update supplier")
		}

		return c.JSON(s)
	}
}

// DELETE /api/suppliers/:id (ADMIN)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var count int64
		database.DB.Model(&models.Purchase{}).Where("supplier_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Supplier has recorded purchases and cannot be deleted")
		}

		if err := database.DB.Delete(&models.Supplier{}, "id = ?", id).Error; err != nil {
			logger.LogError("supplier", "DeleteHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
