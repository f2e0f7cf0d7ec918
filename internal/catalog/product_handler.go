package catalog

import (
	"strings"
	"time"

	"fluxstock-backend/internal/audit"
	"fluxstock-backend/internal/auth"
	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/logger"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2"`
	SKU           string   `json:"sku" validate:"required,min=2"`
	Description   string   `json:"description"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category" validate:"omitempty,oneof=PHONE ACCESSORY PART OTHER"`
	SubCategory   string   `json:"sub_category"`
	UnitOfMeasure string   `json:"unit_of_measure"`
	Condition     string   `json:"condition" validate:"omitempty,oneof=NEW USED DAMAGED"`
	Quantity      int      `json:"quantity" validate:"gte=0"`
	MinQuantity   int      `json:"min_quantity" validate:"gte=0"`
	CostPrice     float64  `json:"cost_price" validate:"gte=0"`
	SellingPrice  float64  `json:"selling_price" validate:"gte=0"`
	TaxApplicable bool     `json:"tax_applicable"`
	ExpiryDate    string   `json:"expiry_date"` // "2006-01-02", optional
	BatchNumber   string   `json:"batch_number"`
	Images        []string `json:"images"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Brand         *string  `json:"brand"`
	Category      *string  `json:"category" validate:"omitempty,oneof=PHONE ACCESSORY PART OTHER"`
	SubCategory   *string  `json:"sub_category"`
	UnitOfMeasure *string  `json:"unit_of_measure"`
	Condition     *string  `json:"condition" validate:"omitempty,oneof=NEW USED DAMAGED"`
	Quantity      *int     `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity   *int     `json:"min_quantity" validate:"omitempty,gte=0"`
	CostPrice     *float64 `json:"cost_price" validate:"omitempty,gte=0"`
	SellingPrice  *float64 `json:"selling_price" validate:"omitempty,gte=0"`
	TaxApplicable *bool    `json:"tax_applicable"`
	Status        *string  `json:"status" validate:"omitempty,oneof=ACTIVE OUT_OF_STOCK DISCONTINUED ARCHIVED"`
	Images        []string `json:"images"`
}

// GET /api/products?category=PHONE&status=ACTIVE&search=iphone
// Archived products are hidden unless asked for explicitly.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Product{}).Preload("Images")

		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		} else {
			q = q.Where("status <> ?", models.ProductArchived)
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(brand) LIKE ?", like, like, like)
		}

		var products []models.Product
		if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
			logger.LogError("catalog", "ListProductsHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		return c.JSON(products)
	}
}

// GET /api/products/:id returns the product plus its ten most recent movements.
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var product models.Product
		if err := database.DB.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var movements []models.StockMovement
		if err := database.DB.
			Preload("User").
			Where("product_id = ?", product.ID).
			Order("created_at DESC, id DESC").
			Limit(10).
			Find(&movements).Error; err != nil {
			logger.LogError("catalog", "GetProductHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load product movements")
		}

		return c.JSON(fiber.Map{
			"product":          product,
			"recent_movements": movements,
		})
	}
}

// POST /api/products (ADMIN, MANAGER)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)

		var existing models.Product
		if err := database.DB.First(&existing, "sku = ?", body.SKU).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This SKU is already in use")
		}

		var expiry *time.Time
		if body.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be 'YYYY-MM-DD'")
			}
			expiry = &d
		}

		p := models.Product{
			Name:          body.Name,
			SKU:           body.SKU,
			Description:   body.Description,
			Brand:         body.Brand,
			Category:      models.CategoryAccessory,
			SubCategory:   body.SubCategory,
			UnitOfMeasure: "pcs",
			Condition:     models.ConditionNew,
			Quantity:      body.Quantity,
			MinQuantity:   body.MinQuantity,
			CostPrice:     decimal.NewFromFloat(body.CostPrice),
			SellingPrice:  decimal.NewFromFloat(body.SellingPrice),
			TaxApplicable: body.TaxApplicable,
			ExpiryDate:    expiry,
			BatchNumber:   body.BatchNumber,
			Status:        models.ProductActive,
		}
		if body.Category != "" {
			p.Category = models.ProductCategory(body.Category)
		}
		if body.Condition != "" {
			p.Condition = models.ProductCondition(body.Condition)
		}
		if body.UnitOfMeasure != "" {
			p.UnitOfMeasure = body.UnitOfMeasure
		}
		if p.Quantity == 0 {
			p.Status = models.ProductOutOfStock
		}
		for _, url := range body.Images {
			p.Images = append(p.Images, models.ProductImage{URL: url})
		}

		if err := database.DB.Create(&p).Error; err != nil {
			logger.LogError("catalog", "CreateProductHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/products/:id (ADMIN, MANAGER)
//
// Quantity edits through this endpoint bypass the stock ledger: no
// StockMovement row is written, so replay no longer reconstructs the
// stored quantity. They exist for corrections from the catalog UI and
// every one of them lands in the audit log with before/after values.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		before := product

		if body.Name != nil {
			product.Name = strings.TrimSpace(*body.Name)
		}
		if body.Description != nil {
			product.Description = *body.Description
		}
		if body.Brand != nil {
			product.Brand = *body.Brand
		}
		if body.Category != nil {
			product.Category = models.ProductCategory(*body.Category)
		}
		if body.SubCategory != nil {
			product.SubCategory = *body.SubCategory
		}
		if body.UnitOfMeasure != nil {
			product.UnitOfMeasure = *body.UnitOfMeasure
		}
		if body.Condition != nil {
			product.Condition = models.ProductCondition(*body.Condition)
		}
		if body.Quantity != nil {
			product.Quantity = *body.Quantity
		}
		if body.MinQuantity != nil {
			product.MinQuantity = *body.MinQuantity
		}
		if body.CostPrice != nil {
			product.CostPrice = decimal.NewFromFloat(*body.CostPrice)
		}
		if body.SellingPrice != nil {
			product.SellingPrice = decimal.NewFromFloat(*body.SellingPrice)
		}
		if body.TaxApplicable != nil {
			product.TaxApplicable = *body.TaxApplicable
		}
		if body.Status != nil {
			product.Status = models.ProductStatus(*body.Status)
		}

		if err := database.DB.Save(&product).Error; err != nil {
			logger.LogError("catalog", "UpdateProductHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		if body.Images != nil {
			if err := replaceImages(product.ID, body.Images); err != nil {
				logger.LogError("catalog", "UpdateProductHandler", err, nil)
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update product images")
			}
		}

		description := "Product updated from catalog"
		if body.Quantity != nil && *body.Quantity != before.Quantity {
			description = "Product updated from catalog (quantity edited outside the ledger)"
		}
		if err := auditProductChange(userID, product.ID, description, before, product); err != nil {
			logger.LogError("catalog", "UpdateProductHandler", err, nil)
		}

		return c.JSON(product)
	}
}

// DELETE /api/products/:id (ADMIN), a soft delete via ARCHIVED status.
// Archived products disappear from the ledger and the default listings;
// their movement history stays intact.
func ArchiveProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		before := product
		product.Status = models.ProductArchived

		if err := database.DB.Save(&product).Error; err != nil {
			logger.LogError("catalog", "ArchiveProductHandler", err, nil)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not archive product")
		}

		if err := auditProductChange(userID, product.ID, "Product archived", before, product); err != nil {
			logger.LogError("catalog", "ArchiveProductHandler", err, nil)
		}

		return c.JSON(product)
	}
}

func replaceImages(productID uint, urls []string) error {
	if err := database.DB.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	for _, url := range urls {
		img := models.ProductImage{ProductID: productID, URL: url}
		if err := database.DB.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}

func auditProductChange(userID, productID uint, description string, before, after models.Product) error {
	var user models.User
	_ = database.DB.First(&user, "id = ?", userID).Error

	return audit.WriteLog(database.DB, audit.LogOptions{
		UserID:      userID,
		UserName:    user.Name,
		EntityType:  "product",
		EntityID:    productID,
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       after,
	})
}
