package service

import (
	"errors"
	"testing"

	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewCartService(defaultOrderConfig(), repository.NewCartRepository(db), repository.NewProductRepository(db))
	return svc, db
}

func TestCartServiceAddItemMergesAndCaps(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "alice")
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "linen-shirt", "100")

	view, message, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 60, SelectedSize: "m"})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if message != CartMessageItemAdded {
		t.Fatalf("message want %s got %s", CartMessageItemAdded, message)
	}
	if len(view.Items) != 1 || view.Items[0].SelectedSize != "M" {
		t.Fatalf("unexpected items: %+v", view.Items)
	}

	view, message, err = svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 60, SelectedSize: "M"})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if message != CartMessageItemUpdated {
		t.Fatalf("message want %s got %s", CartMessageItemUpdated, message)
	}
	if len(view.Items) != 1 {
		t.Fatalf("same option tuple should keep one row, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 99 {
		t.Fatalf("quantity want 99 got %d", view.Items[0].Quantity)
	}
	if view.TotalPrice.String() != "9900.00" {
		t.Fatalf("total price want 9900.00 got %s", view.TotalPrice.String())
	}
}

func TestCartServiceTotalsMatchItems(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "bob")
	category, brand := createTestCatalog(t, db)
	shirt := createTestProduct(t, db, category.ID, brand.ID, "oxford", "100")
	tee := createTestProduct(t, db, category.ID, brand.ID, "tee", "49.50")
	sale := testMoney("39.99")
	tee.SalePrice = &sale
	if err := db.Save(tee).Error; err != nil {
		t.Fatalf("save sale price failed: %v", err)
	}

	if _, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: shirt.ID, Quantity: 2}); err != nil {
		t.Fatalf("add shirt failed: %v", err)
	}
	view, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: tee.ID, Quantity: 3, SelectedColor: "Black"})
	if err != nil {
		t.Fatalf("add tee failed: %v", err)
	}

	if view.TotalItems != 5 {
		t.Fatalf("total items want 5 got %d", view.TotalItems)
	}
	var sum models.Money
	for _, item := range view.Items {
		sum = models.NewMoneyFromDecimal(sum.Add(item.UnitPrice.Mul(decimalFromInt(item.Quantity))))
	}
	if !sum.Equal(view.TotalPrice.Decimal) {
		t.Fatalf("total price want %s got %s", sum.String(), view.TotalPrice.String())
	}
	if view.TotalPrice.String() != "319.97" {
		t.Fatalf("total price want 319.97 got %s", view.TotalPrice.String())
	}
}

func TestCartServiceUnitPriceIsSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "carol")
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "chino", "80")

	if _, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", "120").Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	view, err := svc.GetCart(user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.Items[0].UnitPrice.String() != "80.00" {
		t.Fatalf("unit price want 80.00 got %s", view.Items[0].UnitPrice.String())
	}
}

func TestCartServiceAddItemValidation(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "dave")
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "polo", "60")
	hidden := createTestProduct(t, db, category.ID, brand.ID, "hidden", "60")
	if err := db.Model(hidden).Update("is_available", false).Error; err != nil {
		t.Fatalf("disable product failed: %v", err)
	}

	_, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 100})
	if verr, ok := AsValidationError(err); !ok || verr.Fields["quantity"] == "" {
		t.Fatalf("quantity 100 should be rejected, got %v", err)
	}

	_, _, err = svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 1, SelectedSize: "XXL", SelectedColor: "Purple"})
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("invalid options should be a validation error, got %v", err)
	}
	if verr.Fields["selected_size"] == "" || verr.Fields["selected_color"] == "" {
		t.Fatalf("both option fields should fail, got %+v", verr.Fields)
	}

	if _, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: hidden.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
	if _, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: 9999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestCartServiceItemOwnership(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	owner := createTestUser(t, db, "erin")
	other := createTestUser(t, db, "frank")
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "denim", "150")

	view, _, err := svc.AddItem(owner.ID, AddCartItemInput{ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	itemID := view.Items[0].ID

	if _, err := svc.UpdateItem(other.ID, itemID, 3); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign update want ErrCartItemNotFound got %v", err)
	}
	if _, err := svc.RemoveItem(other.ID, itemID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign remove want ErrCartItemNotFound got %v", err)
	}
	if _, err := svc.UpdateItem(owner.ID, itemID, 0); err == nil {
		t.Fatalf("quantity 0 should be rejected")
	}

	view, err = svc.UpdateItem(owner.ID, itemID, 4)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if view.Items[0].Quantity != 4 {
		t.Fatalf("quantity want 4 got %d", view.Items[0].Quantity)
	}

	view, err = svc.RemoveItem(owner.ID, itemID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !view.IsEmpty {
		t.Fatalf("cart should be empty after remove")
	}
}

func TestCartServiceClearCart(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "gina")
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "scarf", "30")

	view, err := svc.ClearCart(user.ID)
	if err != nil || !view.IsEmpty {
		t.Fatalf("clearing a missing cart should return empty view, got %+v err=%v", view, err)
	}

	if _, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err = svc.ClearCart(user.ID)
	if err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	if !view.IsEmpty || view.TotalItems != 0 || !view.TotalPrice.IsZero() {
		t.Fatalf("unexpected view after clear: %+v", view)
	}
}

// staleReadCartRepo 首次 GetItem 返回未命中，模拟另一个请求刚写入同规格行
type staleReadCartRepo struct {
	repository.CartRepository
	misses int
}

func (r *staleReadCartRepo) GetItem(cartID, productID uint, size, color string) (*models.CartItem, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.CartRepository.GetItem(cartID, productID, size, color)
}

func TestCartServiceAddItemMergesAfterUniqueConflict(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "nisha")
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "kurta", "100")

	if _, _, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 98, SelectedSize: "L"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	svc.cartRepo = &staleReadCartRepo{CartRepository: repository.NewCartRepository(db), misses: 1}

	view, message, err := svc.AddItem(user.ID, AddCartItemInput{ProductID: product.ID, Quantity: 5, SelectedSize: "L"})
	if err != nil {
		t.Fatalf("conflicting add failed: %v", err)
	}
	if message != CartMessageItemUpdated {
		t.Fatalf("message want %s got %s", CartMessageItemUpdated, message)
	}
	var rows []models.CartItem
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("list rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Quantity != 99 {
		t.Fatalf("want one row with quantity 99 got %+v", rows)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 99 {
		t.Fatalf("view should show merged line, got %+v", view.Items)
	}
}
