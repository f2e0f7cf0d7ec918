package purchase

import (
	"errors"
	"testing"

	"fluxstock-backend/internal/database"
	"fluxstock-backend/internal/models"
	"fluxstock-backend/internal/stock"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBase(t *testing.T, db *gorm.DB) (models.User, models.Supplier) {
	t.Helper()
	user := models.User{Name: "Buyer", Email: t.Name() + "@test", PasswordHash: "x", Role: models.RoleManager}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	supplier := models.Supplier{Name: "TechHub Distributors"}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return user, supplier
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, quantity int) models.Product {
	t.Helper()
	product := models.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Category:      models.CategoryPhone,
		UnitOfMeasure: "pcs",
		Condition:     models.ConditionNew,
		Quantity:      quantity,
		CostPrice:     decimal.NewFromInt(100),
		SellingPrice:  decimal.NewFromInt(150),
		Status:        models.ProductActive,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestCreatePurchase(t *testing.T) {
	db := setupTestDB(t)
	user, supplier := seedBase(t, db)
	productX := seedProduct(t, db, "SKU-X", 10)
	productY := seedProduct(t, db, "SKU-Y", 0)

	purchase, err := Create(db, CreateInput{
		SupplierID: supplier.ID,
		UserID:     user.ID,
		Items: []ItemInput{
			{ProductID: productX.ID, Quantity: 3, UnitCost: decimal.NewFromInt(100)},
			{ProductID: productY.ID, Quantity: 2, UnitCost: decimal.NewFromInt(50)},
		},
		Payments: []PaymentInput{
			{Amount: decimal.NewFromInt(400), Method: models.PaymentCash},
		},
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !purchase.TotalAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("total = %s, want 400", purchase.TotalAmount)
	}
	if !purchase.NetAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("net = %s, want 400", purchase.NetAmount)
	}
	if purchase.Status != models.PurchaseCompleted {
		t.Fatalf("status = %s, want COMPLETED", purchase.Status)
	}

	var x, y models.Product
	if err := db.First(&x, "id = ?", productX.ID).Error; err != nil {
		t.Fatalf("reload productX: %v", err)
	}
	if err := db.First(&y, "id = ?", productY.ID).Error; err != nil {
		t.Fatalf("reload productY: %v", err)
	}
	if x.Quantity != 13 {
		t.Fatalf("productX quantity = %d, want 13", x.Quantity)
	}
	if y.Quantity != 2 {
		t.Fatalf("productY quantity = %d, want 2", y.Quantity)
	}

	var movements []models.StockMovement
	if err := db.Order("id asc").Find(&movements).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movement rows = %d, want 2", len(movements))
	}
	for _, m := range movements {
		if m.Type != models.MovementIn {
			t.Fatalf("movement type = %s, want IN", m.Type)
		}
		if m.ReferenceID == nil || *m.ReferenceID != purchase.ID {
			t.Fatalf("movement reference = %v, want purchase id %d", m.ReferenceID, purchase.ID)
		}
		if m.Reason != "Purchase" {
			t.Fatalf("movement reason = %q, want \"Purchase\"", m.Reason)
		}
	}

	var payments []models.Payment
	if err := db.Find(&payments, "purchase_id = ?", purchase.ID).Error; err != nil {
		t.Fatalf("load payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payment rows = %d, want 1", len(payments))
	}
	if payments[0].Status != models.PaymentStatusSuccess {
		t.Fatalf("payment status = %s, want SUCCESS", payments[0].Status)
	}
}

func TestCreatePurchaseDiscountAndTax(t *testing.T) {
	db := setupTestDB(t)
	user, supplier := seedBase(t, db)
	product := seedProduct(t, db, "SKU-DT", 0)

	purchase, err := Create(db, CreateInput{
		SupplierID: supplier.ID,
		UserID:     user.ID,
		Items: []ItemInput{
			{ProductID: product.ID, Quantity: 4, UnitCost: decimal.NewFromInt(25)},
		},
		Discount: decimal.NewFromInt(10),
		Tax:      decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !purchase.TotalAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("total = %s, want 100", purchase.TotalAmount)
	}
	// net = total - discount + tax
	if !purchase.NetAmount.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("net = %s, want 95", purchase.NetAmount)
	}

	// Fully unpaid purchases are allowed.
	var paymentCount int64
	db.Model(&models.Payment{}).Where("purchase_id = ?", purchase.ID).Count(&paymentCount)
	if paymentCount != 0 {
		t.Fatalf("payment rows = %d, want 0", paymentCount)
	}
}

func TestCreatePurchaseUnknownProductRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	user, supplier := seedBase(t, db)
	productA := seedProduct(t, db, "SKU-RB-A", 5)
	productB := seedProduct(t, db, "SKU-RB-B", 5)

	_, err := Create(db, CreateInput{
		SupplierID: supplier.ID,
		UserID:     user.ID,
		Items: []ItemInput{
			{ProductID: productA.ID, Quantity: 3, UnitCost: decimal.NewFromInt(10)},
			{ProductID: 9999, Quantity: 1, UnitCost: decimal.NewFromInt(10)},
			{ProductID: productB.ID, Quantity: 2, UnitCost: decimal.NewFromInt(10)},
		},
		Payments: []PaymentInput{
			{Amount: decimal.NewFromInt(60), Method: models.PaymentTransfer},
		},
	})
	if !errors.Is(err, stock.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}

	// Nothing from the failed purchase may be visible: header, items,
	// payments, movements or product increments.
	var purchases, items, payments, movements int64
	db.Model(&models.Purchase{}).Count(&purchases)
	db.Model(&models.PurchaseItem{}).Count(&items)
	db.Model(&models.Payment{}).Count(&payments)
	db.Model(&models.StockMovement{}).Count(&movements)
	if purchases != 0 || items != 0 || payments != 0 || movements != 0 {
		t.Fatalf("rollback left rows behind: purchases=%d items=%d payments=%d movements=%d",
			purchases, items, payments, movements)
	}

	var a models.Product
	if err := db.First(&a, "id = ?", productA.ID).Error; err != nil {
		t.Fatalf("reload productA: %v", err)
	}
	if a.Quantity != 5 {
		t.Fatalf("productA quantity = %d after rollback, want 5", a.Quantity)
	}
}

func TestCreatePurchaseSameProductTwiceChains(t *testing.T) {
	db := setupTestDB(t)
	user, supplier := seedBase(t, db)
	product := seedProduct(t, db, "SKU-CHAIN", 1)

	purchase, err := Create(db, CreateInput{
		SupplierID: supplier.ID,
		UserID:     user.ID,
		Items: []ItemInput{
			{ProductID: product.ID, Quantity: 2, UnitCost: decimal.NewFromInt(10)},
			{ProductID: product.ID, Quantity: 3, UnitCost: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var movements []models.StockMovement
	if err := db.Where("reference_id = ?", purchase.ID).Order("id asc").Find(&movements).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movement rows = %d, want 2", len(movements))
	}
	if movements[0].BeforeQuantity != 1 || movements[0].AfterQuantity != 3 {
		t.Fatalf("first movement %d/%d, want 1/3", movements[0].BeforeQuantity, movements[0].AfterQuantity)
	}
	if movements[1].BeforeQuantity != 3 || movements[1].AfterQuantity != 6 {
		t.Fatalf("second movement %d/%d, want 3/6 (must see the first item's effect)", movements[1].BeforeQuantity, movements[1].AfterQuantity)
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Quantity != 6 {
		t.Fatalf("quantity = %d, want 6", stored.Quantity)
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	db := setupTestDB(t)
	user, supplier := seedBase(t, db)
	product := seedProduct(t, db, "SKU-VAL", 0)

	cases := []CreateInput{
		{SupplierID: supplier.ID, UserID: user.ID, Items: nil},
		{SupplierID: supplier.ID, UserID: user.ID, Items: []ItemInput{{ProductID: product.ID, Quantity: 0, UnitCost: decimal.NewFromInt(1)}}},
		{SupplierID: supplier.ID, UserID: user.ID, Items: []ItemInput{{ProductID: product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(-1)}}},
		{SupplierID: supplier.ID, UserID: 0, Items: []ItemInput{{ProductID: product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(1)}}},
		{SupplierID: 9999, UserID: user.ID, Items: []ItemInput{{ProductID: product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(1)}}},
		{SupplierID: supplier.ID, UserID: user.ID, Discount: decimal.NewFromInt(-1), Items: []ItemInput{{ProductID: product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(1)}}},
	}
	for i, in := range cases {
		_, err := Create(db, in)
		var vErr *stock.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("case %d: want ValidationError, got %v", i, err)
		}
	}

	var count int64
	db.Model(&models.Purchase{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected inputs created %d purchases", count)
	}
}

func TestCreatePurchaseDoesNotRevertOutOfStockStatus(t *testing.T) {
	db := setupTestDB(t)
	user, supplier := seedBase(t, db)
	product := seedProduct(t, db, "SKU-OOS", 0)
	if err := db.Model(&product).Update("status", models.ProductOutOfStock).Error; err != nil {
		t.Fatalf("mark out of stock: %v", err)
	}

	if _, err := Create(db, CreateInput{
		SupplierID: supplier.ID,
		UserID:     user.ID,
		Items:      []ItemInput{{ProductID: product.ID, Quantity: 5, UnitCost: decimal.NewFromInt(10)}},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Status != models.ProductOutOfStock {
		t.Fatalf("status = %s, want OUT_OF_STOCK (purchase IN must not auto-revert)", stored.Status)
	}
	if stored.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", stored.Quantity)
	}
}
